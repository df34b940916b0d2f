package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the memory task store is selected
	db        *sql.DB
	taskStore store.TaskStore

	cache       store.Cache
	cacheCloser io.Closer

	taskService service.TaskService
}

// newApplication creates a new application instance with all dependencies initialized.
// Any resource opened before a failure is released before returning.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.db, app.taskStore, err = setupTaskStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app.cache, app.cacheCloser, err = setupCache(ctx, cfg.Cache, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.cache, service.TaskServiceConfig{
		TTL:           time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		KeyPrefix:     cfg.Cache.KeyPrefix,
		WriteStrategy: service.WriteStrategy(cfg.Cache.WriteStrategy),
	}, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.cacheCloser != nil {
		if err := app.cacheCloser.Close(); err != nil {
			app.logger.Error("Error closing cache connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
