package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge-api/internal/domain"
	"github.com/taskforge/taskforge-api/internal/platform/postgres"
	"github.com/taskforge/taskforge-api/internal/store"
	"github.com/taskforge/taskforge-api/internal/testdb"
)

// newDBUser builds a valid user with unique username and email, so tests
// that must commit rows never collide with each other.
func newDBUser(t *testing.T) *domain.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user, err := domain.NewUser(
		"user-"+suffix,
		fmt.Sprintf("%s@example.com", suffix),
		"$2a$10$placeholderhashplaceholderhashplacehold",
	)
	require.NoError(t, err, "Failed to build test user")
	return user
}

func createDBTask(t *testing.T, ctx context.Context, taskStore store.TaskStore, userID uuid.UUID, title string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(userID, title, "created for a database test")
	require.NoError(t, err, "Failed to build test task")
	require.NoError(t, taskStore.Create(ctx, task), "Failed to insert test task")
	return task
}

// TestUserStoreDeleteRemovesOwnedTasks verifies that deleting a user also
// deletes every task the user owns, in the same transaction, while leaving
// other users' data untouched.
func TestUserStoreDeleteRemovesOwnedTasks(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDB(t)
	userStore := postgres.NewPostgresUserStore(db, nil)
	taskStore := postgres.NewPostgresTaskStore(db, nil)
	ctx := context.Background()

	// Delete commits through the pool, so this test works on committed
	// rows and cleans up the surviving user itself.
	target := newDBUser(t)
	require.NoError(t, userStore.Create(ctx, target))
	for i := 0; i < 3; i++ {
		createDBTask(t, ctx, taskStore, target.ID, fmt.Sprintf("doomed task %d", i))
	}

	bystander := newDBUser(t)
	require.NoError(t, userStore.Create(ctx, bystander))
	t.Cleanup(func() {
		if err := userStore.Delete(context.Background(), bystander.ID); err != nil {
			t.Logf("Warning: failed to clean up bystander user: %v", err)
		}
	})
	kept := createDBTask(t, ctx, taskStore, bystander.ID, "surviving task")

	err := userStore.Delete(ctx, target.ID)
	require.NoError(t, err, "Delete should succeed for an existing user")

	// The user row is gone.
	_, err = userStore.GetByID(ctx, target.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound, "Deleted user should not be found")

	// All of the user's tasks are gone.
	var orphaned int
	require.NoError(t,
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks WHERE user_id = $1", target.ID).Scan(&orphaned))
	assert.Zero(t, orphaned, "Deleted user should leave no tasks behind")

	// The other user's data is untouched.
	survivor, err := taskStore.GetForUser(ctx, bystander.ID, kept.ID)
	require.NoError(t, err, "Bystander's task should survive the cascade")
	assert.Equal(t, "surviving task", survivor.Title)

	// Deleting again reports the user as missing.
	err = userStore.Delete(ctx, target.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound, "Second delete should report a missing user")
}

// TestUserStoreCreateMapsUniqueViolations verifies that the real database
// unique constraints surface as the store's sentinel errors.
func TestUserStoreCreateMapsUniqueViolations(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDB(t)
	ctx := context.Background()

	// A unique violation aborts the surrounding transaction, so each
	// duplicate attempt gets a transaction of its own.
	t.Run("duplicate username", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			userStore := postgres.NewPostgresUserStore(db, nil).WithTx(tx)

			first := newDBUser(t)
			require.NoError(t, userStore.Create(ctx, first))

			dup := newDBUser(t)
			dup.Username = first.Username
			err := userStore.Create(ctx, dup)
			assert.ErrorIs(t, err, store.ErrUsernameExists,
				"Duplicate username should map to ErrUsernameExists")
		})
	})

	t.Run("duplicate email", func(t *testing.T) {
		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
			userStore := postgres.NewPostgresUserStore(db, nil).WithTx(tx)

			first := newDBUser(t)
			require.NoError(t, userStore.Create(ctx, first))

			dup := newDBUser(t)
			dup.Email = first.Email
			err := userStore.Create(ctx, dup)
			assert.ErrorIs(t, err, store.ErrEmailExists,
				"Duplicate email should map to ErrEmailExists")
		})
	})
}
