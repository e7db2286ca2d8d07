package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/taskforge/taskforge-api/internal/api/middleware"
	"golang.org/x/time/rate"
)

// routes creates and configures the application router with all routes
// and middleware.
func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Slow down credential stuffing without touching authenticated traffic.
	authLimiter := apiMiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Limit)
			r.Post("/auth/register", app.authHandler.Register)
			r.Post("/auth/login", app.authHandler.Login)
			r.Post("/auth/token/refresh", app.authHandler.RefreshToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/tasks", app.taskHandler.List)
			r.Post("/tasks", app.taskHandler.Create)
			r.Get("/tasks/{id}", app.taskHandler.Get)
			r.Put("/tasks/{id}", app.taskHandler.Update)
			r.Patch("/tasks/{id}", app.taskHandler.Patch)
			r.Delete("/tasks/{id}", app.taskHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
