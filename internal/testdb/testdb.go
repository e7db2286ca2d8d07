// Package testdb provides helpers for database-backed tests. It depends
// only on database/sql and the migration tooling, not on any store
// implementation, so every package can use it without import cycles.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds individual database operations inside tests.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the connection string for integration tests.
// It checks DATABASE_URL first, then TASKFORGE_TEST_DB_URL, returning the
// first non-empty value.
func GetTestDatabaseURL() string {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("TASKFORGE_TEST_DB_URL")
	}
	return dbURL
}

// GetTestDB opens a connection to the test database, runs migrations, and
// registers cleanup to close the connection. The test is skipped when no
// test database URL is configured, so integration tests are a no-op in
// environments without PostgreSQL.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or TASKFORGE_TEST_DB_URL not set - skipping integration test")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	err = db.PingContext(ctx)
	require.NoError(t, err, "Database ping failed")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	// goose keeps global state, so the schema is set up once per test
	// process even when tests run in parallel.
	schemaOnce.Do(func() {
		SetupSchema(t, db)
	})

	return db
}

var schemaOnce sync.Once

// SetupSchema runs the server's migrations against the given database.
// The migration files ship embedded in the server binary, so tests locate
// them on disk relative to the module root instead.
func SetupSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	projectRoot, err := findProjectRoot()
	require.NoError(t, err, "Failed to find project root")

	migrationsDir := filepath.Join(projectRoot, "cmd", "server", "migrations")
	require.DirExists(t, migrationsDir, "Migrations directory does not exist: %s", migrationsDir)

	goose.SetLogger(&testGooseLogger{t: t})
	goose.SetBaseFS(os.DirFS(migrationsDir))
	require.NoError(t, goose.SetDialect("postgres"), "Failed to set goose dialect")
	require.NoError(t, goose.Up(db, "."), "Failed to run migrations")
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// leave no rows behind regardless of outcome.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if fn committed or rolled back itself.
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// findProjectRoot walks upward from the working directory until it finds
// the directory containing go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find go.mod in any parent directory")
		}
		dir = parent
	}
}

// testGooseLogger routes goose output through the test log.
type testGooseLogger struct {
	t *testing.T
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Log("goose: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatal("goose: " + strings.TrimSpace(fmt.Sprintf(format, v...)))
}
