package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/store"
)

// MockTaskService implements service.TaskService for testing
type MockTaskService struct {
	// Function fields for customizable behavior
	CreateTaskFn func(ctx context.Context, userID uuid.UUID, title, description string, completed bool, dueDate *time.Time) (*domain.Task, error)
	GetTaskFn    func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, userID, taskID uuid.UUID, upd domain.TaskUpdate) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, userID, taskID uuid.UUID) error
	ListTasksFn  func(ctx context.Context, userID uuid.UUID, params store.TaskListParams) (*store.TaskPage, error)

	// Default values used when functions aren't explicitly defined
	Task *domain.Task
	Page *store.TaskPage
	Err  error
}

// CreateTask implements the service.TaskService interface
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	title, description string,
	completed bool,
	dueDate *time.Time,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, title, description, completed, dueDate)
	}
	return m.Task, m.Err
}

// GetTask implements the service.TaskService interface
func (m *MockTaskService) GetTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return m.Task, m.Err
}

// UpdateTask implements the service.TaskService interface
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	upd domain.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, upd)
	}
	return m.Task, m.Err
}

// DeleteTask implements the service.TaskService interface
func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return m.Err
}

// ListTasks implements the service.TaskService interface
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	userID uuid.UUID,
	params store.TaskListParams,
) (*store.TaskPage, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID, params)
	}
	return m.Page, m.Err
}
