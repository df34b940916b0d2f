// Package main implements the entry point for the Tasks API server, which
// serves task CRUD and filtered listings backed by PostgreSQL with a Redis
// look-aside snapshot cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
)

// main is the entry point for the tasks-api server.
// It is responsible for initializing configuration, setting up logging,
// establishing database and cache connections, injecting dependencies, and
// starting the HTTP server.
func main() {
	migrateCmd := flag.String("migrate", "", "Run a database migration command: up, down, status, version, reset")
	seed := flag.Bool("seed", false, "Insert sample tasks and exit")
	flag.Parse()

	if err := run(*migrateCmd, *seed); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// run wires the application and executes the requested mode.
func run(migrateCmd string, seed bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"cache_driver", cfg.Cache.Driver,
		"write_strategy", cfg.Cache.WriteStrategy)

	if migrateCmd != "" {
		return handleMigrations(cfg, migrateCmd, l)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if seed {
		defer app.cleanup()
		return seedTasks(ctx, app.taskService, l)
	}

	return app.Run(ctx)
}
