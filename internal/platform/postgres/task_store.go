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

// taskColumns is the column list shared by every task SELECT.
const taskColumns = "id, user_id, title, description, completed, due_date, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	pool   *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		pool:   db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// DB implements store.TaskStore.DB
func (s *PostgresTaskStore) DB() *sql.DB {
	return s.pool
}

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, user_id, title, description, completed, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetForUser implements store.TaskStore.GetForUser
// The query is restricted to the owner's set up front, so a task owned by
// someone else scans as no rows and returns store.ErrTaskNotFound exactly
// like a nonexistent one.
func (s *PostgresTaskStore) GetForUser(
	ctx context.Context,
	userID, taskID uuid.UUID,
) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND user_id = $2`, taskColumns)

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, taskID, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return &task, nil
}

// Update implements store.TaskStore.Update
// The WHERE clause re-checks ownership so the write itself can never land
// on another user's row, even if the caller skipped GetForUser.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, due_date = $4, updated_at = $5
		WHERE id = $6 AND user_id = $7
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Completed,
		task.DueDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Debug("task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		taskID,
		userID,
	)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Debug("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// buildTaskFilter composes the WHERE clause for a task listing. The owner
// restriction is always the first predicate; filter and search conditions
// are appended after it. Returns the clause and its ordered arguments.
func buildTaskFilter(userID uuid.UUID, params store.TaskListParams) (string, []any) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if params.Completed != nil {
		args = append(args, *params.Completed)
		conditions = append(conditions, fmt.Sprintf("completed = $%d", len(args)))
	}

	if params.DueDate != nil {
		args = append(args, *params.DueDate)
		conditions = append(conditions, fmt.Sprintf("due_date = $%d", len(args)))
	}

	if params.Search != "" {
		args = append(args, "%"+escapeLike(params.Search)+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}

	return strings.Join(conditions, " AND "), args
}

// likeEscaper neutralizes the ILIKE metacharacters so a user-supplied
// search term matches as a literal substring instead of a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderClause renders the ORDER BY fragment for normalized params. The
// column has already passed the whitelist in TaskListParams.Normalize, so
// interpolating it is safe.
func orderClause(params store.TaskListParams) string {
	direction := "ASC"
	if params.OrderDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", params.OrderBy, direction)
}

// ListForUser implements store.TaskStore.ListForUser
// Params must already be normalized; the total count is taken after filter
// and search but before LIMIT/OFFSET, so out-of-range pages come back
// empty with the true count.
func (s *PostgresTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	params store.TaskListParams,
) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskFilter(userID, params)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks WHERE %s", where)
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	listArgs := append(args, params.PageSize, params.Offset())
	listQuery := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE %s %s LIMIT $%d OFFSET $%d",
		taskColumns,
		where,
		orderClause(params),
		len(args)+1,
		len(args)+2,
	)

	rows, err := s.db.QueryContext(ctx, listQuery, listArgs...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0, params.PageSize)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return &store.TaskPage{
		Tasks:      tasks,
		TotalCount: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
	}, nil
}
