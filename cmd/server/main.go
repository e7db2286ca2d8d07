// Package main implements the entry point for the taskforge API server,
// which provides user registration, JWT login/refresh and owner-scoped
// task management.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.close()

	if err := app.run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
