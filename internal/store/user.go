package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password; plaintext never reaches this layer.
	// Returns ErrUsernameExists or ErrEmailExists if the corresponding
	// unique constraint is violated.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Delete removes a user and all of their tasks. The cascade is an
	// explicit transaction (tasks first, then the user) rather than a
	// side effect of schema constraints, so the guarantee is testable.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) UserStore
}
