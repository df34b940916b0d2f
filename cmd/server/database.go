package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
)

// dbPingTimeout bounds the startup connectivity check.
const dbPingTimeout = 5 * time.Second

// setupTaskStore builds the task store selected by cfg.Driver. The returned
// *sql.DB is nil for the memory driver.
func setupTaskStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
) (*sql.DB, store.TaskStore, error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("Using in-memory task store; data is lost on restart")
		return nil, memory.NewTaskStore(), nil
	case "postgres":
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return db, postgres.NewPostgresTaskStore(db, logger), nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// setupAppDatabase establishes a connection to the database and configures connection pools.
// Returns the database connection if successful, or an error if the connection fails.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(max(cfg.MaxOpenConns/2, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established", "max_open_conns", cfg.MaxOpenConns)
	return db, nil
}
