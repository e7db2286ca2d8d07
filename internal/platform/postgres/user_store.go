package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	pool   *sql.DB // non-nil only when constructed from a pool; needed for Delete's transaction
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
func NewPostgresUserStore(db *sql.DB, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		pool:   db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It saves a new user, mapping unique violations on the username and
// email constraints to store.ErrUsernameExists and store.ErrEmailExists.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			constraint := UniqueConstraintName(err)
			log.Warn("unique violation during user creation",
				slog.String("constraint", constraint),
				slog.String("user_id", user.ID.String()))
			switch {
			case strings.Contains(constraint, "username"):
				return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
			case strings.Contains(constraint, "email"):
				return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
			}
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, username, email, hashed_password, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByUsername implements store.UserStore.GetByUsername
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.User, error) {
	query := `
		SELECT id, username, email, hashed_password, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// scanUser reads one user row, mapping sql.ErrNoRows to ErrUserNotFound.
func (s *PostgresUserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	return &user, nil
}

// Delete implements store.UserStore.Delete
// The user's tasks are removed first and the user row second, inside one
// transaction, so the ownership cascade is explicit rather than a schema
// side effect. Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.pool == nil {
		return fmt.Errorf("%w: delete requires a connection pool, not a transaction", store.ErrTransactionFailed)
	}

	return store.RunInTransaction(ctx, s.pool, func(ctx context.Context, tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = $1`, id)
		if err != nil {
			log.Error("failed to delete user's tasks",
				slog.String("error", err.Error()),
				slog.String("user_id", id.String()))
			return MapError(err)
		}
		if deleted, err := result.RowsAffected(); err == nil {
			log.Debug("deleted owned tasks",
				slog.Int64("count", deleted),
				slog.String("user_id", id.String()))
		}

		result, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			log.Error("failed to delete user",
				slog.String("error", err.Error()),
				slog.String("user_id", id.String()))
			return MapError(err)
		}
		if err := CheckRowsAffected(result, "user"); err != nil {
			return store.ErrUserNotFound
		}

		log.Info("user deleted", slog.String("user_id", id.String()))
		return nil
	})
}
