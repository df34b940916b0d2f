package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const taskColumns = "id, title, description, status, due_date, created_at, updated_at"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		status      string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	task.Status = domain.TaskStatus(status)
	task.DueDate = task.DueDate.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

// Create implements store.TaskStore.Create
// The database assigns the ID, and created_at and updated_at share one now().
func (s *PostgresTaskStore) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input.Normalize()
	if err := input.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		INSERT INTO tasks (title, description, status, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		input.Title,
		input.Description,
		string(input.Status),
		input.DueDate.UTC(),
	))
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// FindMany implements store.TaskStore.FindMany
func (s *PostgresTaskStore) FindMany(ctx context.Context, opts store.TaskFindOptions) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if opts.Skip < 0 {
		// A negative skip only comes from an overflowed offset, which lies past the end
		return []*domain.Task{}, nil
	}

	where := buildWhere(opts.Filter)
	args := where.args

	query := "SELECT " + taskColumns + " FROM tasks" + where.String() + orderByClause(opts.OrderBy)
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	if opts.Take > 0 {
		args = append(args, opts.Take)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	log.Debug("finding tasks",
		slog.String("order_by", string(opts.OrderBy)),
		slog.Int("skip", opts.Skip),
		slog.Int("take", opts.Take))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tasks, nil
}

// Count implements store.TaskStore.Count
func (s *PostgresTaskStore) Count(ctx context.Context, filter *domain.TaskFilter) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where := buildWhere(filter)
	query := "SELECT COUNT(*) FROM tasks" + where.String()

	var count int
	if err := s.db.QueryRowContext(ctx, query, where.args...).Scan(&count); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return count, nil
}

// Update implements store.TaskStore.Update
// Absent patch fields keep their stored values. updated_at always moves
// forward, even when two updates land within the clock's resolution.
func (s *PostgresTaskStore) Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	var (
		title   *string
		status  *string
		dueDate any
	)
	if patch.Title != nil {
		trimmed := strings.TrimSpace(*patch.Title)
		title = &trimmed
	}
	if patch.Status != nil {
		raw := string(*patch.Status)
		status = &raw
	}
	if patch.DueDate != nil {
		dueDate = patch.DueDate.UTC()
	}

	query := `
		UPDATE tasks
		SET title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			due_date = COALESCE($5::timestamptz, due_date),
			updated_at = GREATEST(clock_timestamp(), updated_at + interval '1 microsecond')
		WHERE id = $1
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		id,
		title,
		patch.Description,
		status,
		dueDate,
	))
	if err != nil {
		err = mapTaskError(err)
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
		} else {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		err = mapTaskError(err)
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete", slog.String("task_id", id.String()))
		} else {
			log.Error("failed to delete task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return task, nil
}
