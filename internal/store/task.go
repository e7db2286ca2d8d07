package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
)

// Task ordering columns accepted by ListForUser. Anything else falls back
// to the default ordering.
const (
	OrderByCreatedAt = "created_at"
	OrderByUpdatedAt = "updated_at"
	OrderByTitle     = "title"
)

// TaskListParams carries the optional criteria applied on top of the
// owner-scoped base set when listing tasks. The owner restriction itself
// is not part of the params; it is a mandatory argument of ListForUser so
// it can never be omitted.
type TaskListParams struct {
	// Completed filters on the completion flag when non-nil.
	Completed *bool

	// DueDate filters on the exact due date when non-nil.
	DueDate *time.Time

	// Search is a case-insensitive substring matched against title OR
	// description. Empty means no search.
	Search string

	// OrderBy is one of the OrderBy* columns. OrderDesc selects the
	// direction; the default is created_at descending (newest first).
	OrderBy   string
	OrderDesc bool

	// Page is 1-based. PageSize is clamped to [1, maxPageSize] by
	// Normalize; zero means "use the default".
	Page     int
	PageSize int
}

// Normalize clamps the params into their valid ranges. Unknown ordering
// columns revert to created_at descending, page numbers below 1 become 1,
// and the page size is defaulted and capped. It returns the params so
// callers can normalize inline.
func (p TaskListParams) Normalize(defaultPageSize, maxPageSize int) TaskListParams {
	switch p.OrderBy {
	case OrderByCreatedAt, OrderByUpdatedAt, OrderByTitle:
	default:
		p.OrderBy = OrderByCreatedAt
		p.OrderDesc = true
	}

	if p.Page < 1 {
		p.Page = 1
	}

	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	return p
}

// Offset returns the row offset for the normalized page/page-size pair.
func (p TaskListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TaskPage is one page of an owner-scoped task listing. TotalCount is the
// number of matches after filter and search but before pagination. Page
// and PageSize echo the normalized values the listing actually used, so
// callers can derive next/previous links without re-deriving the clamping.
type TaskPage struct {
	Tasks      []*domain.Task
	TotalCount int
	Page       int
	PageSize   int
}

// TaskStore defines the interface for task data persistence. Every lookup
// and mutation takes the owner's user ID and restricts itself to that
// owner's tasks before any other criterion applies, so a caller can never
// observe another user's task through any combination of parameters.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetForUser retrieves a task by ID within the owner's set.
	// Returns ErrTaskNotFound when the task does not exist or belongs to
	// a different owner; the two cases are indistinguishable.
	GetForUser(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// Update persists the task's mutable fields. The task must have been
	// resolved through GetForUser within the same transaction so a
	// concurrent delete surfaces as ErrTaskNotFound.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID within the owner's set.
	// Returns ErrTaskNotFound when the task does not exist or belongs to
	// a different owner.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error

	// ListForUser returns one page of the owner's tasks after applying
	// the given (normalized) params.
	ListForUser(ctx context.Context, userID uuid.UUID, params TaskListParams) (*TaskPage, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) TaskStore

	// DB returns the underlying database handle, used by services to run
	// multi-step operations in a single transaction.
	DB() *sql.DB
}
