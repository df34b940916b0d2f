package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/pressly/goose/v3"
)

// MigrationTableName is the name of the table used by goose to track migrations.
const MigrationTableName = "schema_migrations"

// migrationCommands lists the goose commands the -migrate flag accepts.
var migrationCommands = map[string]func(db *sql.DB, dir string) error{
	"up":      func(db *sql.DB, dir string) error { return goose.Up(db, dir) },
	"down":    func(db *sql.DB, dir string) error { return goose.Down(db, dir) },
	"status":  func(db *sql.DB, dir string) error { return goose.Status(db, dir) },
	"version": func(db *sql.DB, dir string) error { return goose.Version(db, dir) },
	"reset":   func(db *sql.DB, dir string) error { return goose.Reset(db, dir) },
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages to slog.Error
// Unlike the standard Fatalf it does not exit; the error is returned to main.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// handleMigrations handles the execution of database migrations.
// It's called from main() when the -migrate flag is set.
func handleMigrations(cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations require the postgres driver, got %q", cfg.Database.Driver)
	}
	if _, ok := migrationCommands[command]; !ok {
		return fmt.Errorf("unknown migration command %q", command)
	}

	db, err := setupAppDatabase(context.Background(), cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return runMigrations(db, command, logger)
}

// runMigrations executes a goose command against the embedded migrations.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	run, ok := migrationCommands[command]
	if !ok {
		return fmt.Errorf("unknown migration command %q", command)
	}

	migrationLogger := logger.With("component", "migrations", "command", command)

	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(MigrationTableName)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	migrationLogger.Info("Executing migrations")
	if err := run(db, postgres.MigrationsDir); err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}
	migrationLogger.Info("Migrations completed")
	return nil
}
