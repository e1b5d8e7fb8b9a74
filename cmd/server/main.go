// Package main implements the entry point for the Taskwire API server,
// which handles task management, assignment notifications, and realtime
// delivery over websockets.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/taskwire/taskwire-api/internal/config"
	"github.com/taskwire/taskwire-api/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return
	}
	defer app.shutdown()

	if err := runMigrations(app.db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return
	}

	if err := app.startHTTPServer(context.Background(), app.setupRouter()); err != nil {
		slog.Error("Server exited with error", "error", err)
	}
}
