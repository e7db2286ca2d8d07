package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
)

// Common request/response structures. Request structs bind only the
// client-writable fields; server-managed fields (id, owner, timestamps)
// have no binding and are silently ignored when a client sends them.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,min=3,max=150,username"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// RegisterResponse defines the successful response for registration.
// The password, hashed or otherwise, is never part of it.
type RegisterResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse defines the successful response for the login endpoint:
// a short-lived access token and a longer-lived refresh token.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest defines the payload for the token refresh endpoint.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// RefreshResponse defines the successful response for the token refresh
// endpoint.
type RefreshResponse struct {
	Access string `json:"access"`
}

// CreateTaskRequest defines the payload for task creation and full (PUT)
// replacement. The title length rules apply after trimming, which the
// handler performs before validation.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=3,max=255"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
}

// PatchTaskRequest defines the payload for partial task updates. Only
// non-nil fields are validated and applied; omitted fields keep their
// prior values.
type PatchTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=3,max=255"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse represents the response data for a task. The owner is
// deliberately absent: tasks are only ever visible to their owner.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskListResponse is the paginated envelope for task listings. Count is
// the total number of matches after filter and search, before pagination.
// Next and Previous are absolute page links, null when no such page exists.
type TaskListResponse struct {
	Count    int            `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
	Results  []TaskResponse `json:"results"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
