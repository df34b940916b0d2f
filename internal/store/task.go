package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskFindOptions controls a FindMany query.
type TaskFindOptions struct {
	// Filter restricts the result set. Nil or empty means all tasks.
	Filter *domain.TaskFilter

	// OrderBy is applied ascending. Empty means store order.
	OrderBy domain.SortField

	// Skip is the number of leading rows to drop.
	Skip int

	// Take caps the number of rows returned. Zero means no cap.
	Take int
}

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create inserts a new task. The store assigns the ID and sets
	// createdAt and updatedAt to the same instant.
	Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)

	// FindMany returns tasks matching the options, ordered ascending by
	// OrderBy with ties broken by ID. Returns an empty slice when nothing matches.
	FindMany(ctx context.Context, opts TaskFindOptions) ([]*domain.Task, error)

	// Count returns how many tasks match the filter. Nil counts all tasks.
	Count(ctx context.Context, filter *domain.TaskFilter) (int, error)

	// Update applies a partial patch and refreshes updatedAt, which always
	// strictly increases. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error)

	// Delete hard-deletes a task and returns its last stored value.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}
