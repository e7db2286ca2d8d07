package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskforge/taskforge-api/internal/store"
)

func TestTaskListParamsNormalize(t *testing.T) {
	t.Parallel()

	const (
		defaultPageSize = 10
		maxPageSize     = 100
	)

	tests := []struct {
		name string
		in   store.TaskListParams
		want store.TaskListParams
	}{
		{
			name: "zero values get defaults",
			in:   store.TaskListParams{},
			want: store.TaskListParams{
				OrderBy:   store.OrderByCreatedAt,
				OrderDesc: true,
				Page:      1,
				PageSize:  defaultPageSize,
			},
		},
		{
			name: "valid ordering column kept",
			in:   store.TaskListParams{OrderBy: store.OrderByTitle, Page: 2, PageSize: 20},
			want: store.TaskListParams{OrderBy: store.OrderByTitle, Page: 2, PageSize: 20},
		},
		{
			name: "ascending direction on a valid column kept",
			in:   store.TaskListParams{OrderBy: store.OrderByUpdatedAt, OrderDesc: false, Page: 1, PageSize: 5},
			want: store.TaskListParams{OrderBy: store.OrderByUpdatedAt, OrderDesc: false, Page: 1, PageSize: 5},
		},
		{
			name: "unknown ordering column falls back to newest first",
			in:   store.TaskListParams{OrderBy: "id; DROP TABLE tasks", Page: 1, PageSize: 10},
			want: store.TaskListParams{OrderBy: store.OrderByCreatedAt, OrderDesc: true, Page: 1, PageSize: 10},
		},
		{
			name: "page below one clamped",
			in:   store.TaskListParams{OrderBy: store.OrderByCreatedAt, Page: -3, PageSize: 10},
			want: store.TaskListParams{OrderBy: store.OrderByCreatedAt, Page: 1, PageSize: 10},
		},
		{
			name: "page size above maximum clamped",
			in:   store.TaskListParams{OrderBy: store.OrderByCreatedAt, Page: 1, PageSize: 5000},
			want: store.TaskListParams{OrderBy: store.OrderByCreatedAt, Page: 1, PageSize: maxPageSize},
		},
		{
			name: "negative page size gets the default",
			in:   store.TaskListParams{OrderBy: store.OrderByCreatedAt, Page: 1, PageSize: -1},
			want: store.TaskListParams{OrderBy: store.OrderByCreatedAt, Page: 1, PageSize: defaultPageSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize(defaultPageSize, maxPageSize)
			assert.Equal(t, tt.want.OrderBy, got.OrderBy)
			assert.Equal(t, tt.want.OrderDesc, got.OrderDesc)
			assert.Equal(t, tt.want.Page, got.Page)
			assert.Equal(t, tt.want.PageSize, got.PageSize)
		})
	}
}

func TestTaskListParamsOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		page     int
		pageSize int
		want     int
	}{
		{"first page", 1, 10, 0},
		{"second page", 2, 10, 10},
		{"large page", 40, 25, 975},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := store.TaskListParams{Page: tt.page, PageSize: tt.pageSize}
			assert.Equal(t, tt.want, params.Offset())
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, store.IsNotFoundError(store.ErrTaskNotFound))
	assert.True(t, store.IsNotFoundError(store.ErrUserNotFound))
	assert.False(t, store.IsNotFoundError(store.ErrUsernameExists))

	assert.True(t, store.IsDuplicateError(store.ErrUsernameExists))
	assert.True(t, store.IsDuplicateError(store.ErrEmailExists))
	assert.False(t, store.IsDuplicateError(store.ErrTaskNotFound))
}
