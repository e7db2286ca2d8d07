package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Task validation errors.
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskTitleEmpty  = errors.New("task title cannot be empty")
	ErrTaskTitleShort  = errors.New("task title must be at least 3 characters long")
	ErrTaskTitleLong   = errors.New("task title must be at most 255 characters long")
)

// Task title length bounds, applied after trimming surrounding whitespace.
const (
	TaskTitleMinLen = 3
	TaskTitleMaxLen = 255
)

// Task represents a single to-do item owned by exactly one user. The
// owner is fixed at creation and never changes. UpdatedAt moves forward
// on every successful mutation and never on a read.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. The title is trimmed
// of surrounding whitespace before validation; the description defaults to
// the empty string. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	// Lengths count runes, not bytes, matching the request validator.
	switch titleLen := utf8.RuneCountInString(t.Title); {
	case t.Title == "":
		return ErrTaskTitleEmpty
	case titleLen < TaskTitleMinLen:
		return ErrTaskTitleShort
	case titleLen > TaskTitleMaxLen:
		return ErrTaskTitleLong
	}

	return nil
}

// TaskUpdate describes a partial mutation of a Task. Nil fields are left
// untouched, so the same type serves both PUT (all fields set by the
// handler) and PATCH (only the supplied fields set).
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	ClearDue    bool
}

// Apply merges the update into the task and bumps UpdatedAt. The title is
// trimmed before validation, as at creation. If validation fails the task
// is left unchanged.
func (t *Task) Apply(upd TaskUpdate) error {
	next := *t
	if upd.Title != nil {
		next.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		next.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Completed != nil {
		next.Completed = *upd.Completed
	}
	if upd.DueDate != nil {
		due := *upd.DueDate
		next.DueDate = &due
	} else if upd.ClearDue {
		next.DueDate = nil
	}

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now().UTC()
	if !next.UpdatedAt.After(t.UpdatedAt) {
		// Clock granularity can make consecutive mutations land on the
		// same instant; nudge forward so UpdatedAt is strictly monotonic.
		next.UpdatedAt = t.UpdatedAt.Add(time.Microsecond)
	}

	*t = next
	return nil
}
