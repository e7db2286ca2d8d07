// Package service contains application services that orchestrate domain
// entities and stores, including multi-step transactional operations.
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/store"
)

// TaskService provides owner-scoped task operations. Every method takes
// the authenticated caller's user ID explicitly; there is no path that
// touches a task without it.
type TaskService interface {
	// CreateTask creates a task owned by the given user.
	CreateTask(ctx context.Context, userID uuid.UUID, title, description string, completed bool, dueDate *time.Time) (*domain.Task, error)

	// GetTask retrieves one of the user's tasks by ID.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial or full update to one of the user's
	// tasks. The resolve-then-write sequence runs in one transaction so a
	// concurrent delete is observed as store.ErrTaskNotFound.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, upd domain.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes one of the user's tasks by ID.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// ListTasks returns one page of the user's tasks. Params are
	// normalized against the configured page-size bounds before hitting
	// the store.
	ListTasks(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore       store.TaskStore
	defaultPageSize int
	maxPageSize     int
	logger          *slog.Logger
}

// NewTaskService creates a new TaskService. Page-size bounds come from the
// pagination configuration and apply to every listing.
func NewTaskService(
	taskStore store.TaskStore,
	defaultPageSize, maxPageSize int,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if defaultPageSize <= 0 || maxPageSize <= 0 || defaultPageSize > maxPageSize {
		return nil, domain.NewValidationError("pagination", "invalid page size bounds", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore:       taskStore,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		logger:          logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
	completed bool,
	dueDate *time.Time,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, title, description)
	if err != nil {
		return nil, err
	}
	task.Completed = completed
	if dueDate != nil {
		due := *dueDate
		task.DueDate = &due
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	return s.taskStore.GetForUser(ctx, userID, taskID)
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	upd domain.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(
		ctx,
		s.taskStore.DB(),
		func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.taskStore.WithTx(tx)

			task, err := txStore.GetForUser(ctx, userID, taskID)
			if err != nil {
				return err
			}

			if err := task.Apply(upd); err != nil {
				return err
			}

			if err := txStore.Update(ctx, task); err != nil {
				return err
			}

			updated = task
			return nil
		},
	)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()),
				slog.String("user_id", userID.String()))
		}
		return nil, err
	}

	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	return s.taskStore.Delete(ctx, userID, taskID)
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	params store.TaskListParams,
) (*store.TaskPage, error) {
	normalized := params.Normalize(s.defaultPageSize, s.maxPageSize)
	return s.taskStore.ListForUser(ctx, userID, normalized)
}
