package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/taskforge/taskforge-api/internal/api"
	"github.com/taskforge/taskforge-api/internal/config"
	"github.com/taskforge/taskforge-api/internal/platform/logger"
	"github.com/taskforge/taskforge-api/internal/platform/postgres"
	"github.com/taskforge/taskforge-api/internal/service"
	"github.com/taskforge/taskforge-api/internal/service/auth"
	"github.com/taskforge/taskforge-api/internal/store"
)

// application holds the wired-up dependencies of the server process.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	userStore   store.UserStore
	taskService service.TaskService
	authHandler *api.AuthHandler
	taskHandler *api.TaskHandler
	jwtService  auth.JWTService
}

// newApplication loads configuration and constructs every component of
// the server: logger, database pool, migrations, stores, services and
// handlers.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupDatabase(cfg.Database, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, appLogger); err != nil {
		_ = db.Close()
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	userStore := postgres.NewPostgresUserStore(db, appLogger)
	taskStore := postgres.NewPostgresTaskStore(db, appLogger)

	taskService, err := service.NewTaskService(
		taskStore,
		cfg.Pagination.DefaultPageSize,
		cfg.Pagination.MaxPageSize,
		appLogger,
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	authHandler := api.NewAuthHandler(
		userStore,
		jwtService,
		auth.NewBcryptHasher(),
		auth.NewBcryptVerifier(),
		appLogger,
	)
	taskHandler := api.NewTaskHandler(taskService, appLogger)

	return &application{
		config:      cfg,
		logger:      appLogger,
		db:          db,
		userStore:   userStore,
		taskService: taskService,
		authHandler: authHandler,
		taskHandler: taskHandler,
		jwtService:  jwtService,
	}, nil
}

// run starts the HTTP server and blocks until the context is canceled or
// the server fails. Shutdown drains in-flight requests for up to ten
// seconds.
func (app *application) run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		app.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	}
}

// close releases the application's long-lived resources.
func (app *application) close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
