package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, task *domain.Task) error
	GetForUserFn  func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateFn      func(ctx context.Context, task *domain.Task) error
	DeleteFn      func(ctx context.Context, userID, taskID uuid.UUID) error
	ListForUserFn func(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error)

	// Data for the default implementation, keyed by task ID
	Tasks       map[uuid.UUID]*domain.Task
	CreateError error

	// Conn is returned by DB. Leave nil for tests that never start a
	// transaction.
	Conn *sql.DB
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetForUser implements the TaskStore interface
func (m *MockTaskStore) GetForUser(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.GetForUserFn != nil {
		return m.GetForUserFn(ctx, userID, taskID)
	}

	task, exists := m.Tasks[taskID]
	if !exists || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}

	copied := *task
	return &copied, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	existing, exists := m.Tasks[task.ID]
	if !exists || existing.UserID != task.UserID {
		return store.ErrTaskNotFound
	}

	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, taskID)
	}

	task, exists := m.Tasks[taskID]
	if !exists || task.UserID != userID {
		return store.ErrTaskNotFound
	}

	delete(m.Tasks, taskID)
	return nil
}

// ListForUser implements the TaskStore interface. The default
// implementation applies the owner scope, completion and search filters,
// created_at ordering, and pagination over the in-memory map.
func (m *MockTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.TaskListParams,
) (*store.TaskPage, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID, params)
	}

	var matched []*domain.Task
	for _, task := range m.Tasks {
		if task.UserID != userID {
			continue
		}
		if params.Completed != nil && task.Completed != *params.Completed {
			continue
		}
		if params.Search != "" {
			needle := strings.ToLower(params.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		copied := *task
		matched = append(matched, &copied)
	}

	sort.Slice(matched, func(i, j int) bool {
		if params.OrderDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	total := len(matched)
	start := params.Offset()
	if start > total {
		start = total
	}
	end := start + params.PageSize
	if end > total {
		end = total
	}

	return &store.TaskPage{
		Tasks:      matched[start:end],
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}

// WithTx implements the TaskStore interface for transaction support
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	// For mock purposes, just return the same mock
	return m
}

// DB implements the TaskStore interface
func (m *MockTaskStore) DB() *sql.DB {
	return m.Conn
}
