package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge-api/internal/config"
)

// setRequiredEnv sets the variables without which Load fails outright.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKFORGE_DATABASE_URL", "postgres://localhost:5432/taskforge_test")
	t.Setenv("TASKFORGE_AUTH_JWT_SECRET", strings.Repeat("s", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 30, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenLifetimeMinutes)
	assert.Equal(t, 10, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 100, cfg.Pagination.MaxPageSize)
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASKFORGE_SERVER_PORT", "9090")
	t.Setenv("TASKFORGE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKFORGE_AUTH_TOKEN_LIFETIME_MINUTES", "15")
	t.Setenv("TASKFORGE_PAGINATION_DEFAULT_PAGE_SIZE", "25")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 25, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, "postgres://localhost:5432/taskforge_test", cfg.Database.URL)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing database URL", func(t *testing.T) {
		t.Setenv("TASKFORGE_DATABASE_URL", "")
		t.Setenv("TASKFORGE_AUTH_JWT_SECRET", strings.Repeat("s", 32))

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("short JWT secret", func(t *testing.T) {
		t.Setenv("TASKFORGE_DATABASE_URL", "postgres://localhost:5432/taskforge_test")
		t.Setenv("TASKFORGE_AUTH_JWT_SECRET", "too-short")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("unknown log level", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKFORGE_SERVER_LOG_LEVEL", "verbose")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("default page size above maximum", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKFORGE_PAGINATION_DEFAULT_PAGE_SIZE", "500")
		t.Setenv("TASKFORGE_PAGINATION_MAX_PAGE_SIZE", "100")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("invalid port", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TASKFORGE_SERVER_PORT", "0")

		_, err := config.Load()
		assert.Error(t, err)
	})
}
