package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service/taskquery"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskStore is a mutex-guarded, insertion-ordered task table.
type TaskStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	tasks map[uuid.UUID]*domain.Task
	now   func() time.Time
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore returns an empty store using the wall clock.
func NewTaskStore() *TaskStore {
	return NewTaskStoreWithClock(time.Now)
}

// NewTaskStoreWithClock returns an empty store reading time from now.
func NewTaskStoreWithClock(now func() time.Time) *TaskStore {
	return &TaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
		now:   now,
	}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	task := &domain.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: cloneString(input.Description),
		Status:      input.Status,
		DueDate:     input.DueDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)

	return task.Clone(), nil
}

// FindMany implements store.TaskStore.FindMany
func (s *TaskStore) FindMany(ctx context.Context, opts store.TaskFindOptions) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := s.matching(opts.Filter)

	if opts.OrderBy != "" {
		// Pre-sorting by ID makes ties deterministic, like ORDER BY <field>, id
		slices.SortStableFunc(matched, func(a, b *domain.Task) int {
			return strings.Compare(a.ID.String(), b.ID.String())
		})
		matched = taskquery.Sort(matched, opts.OrderBy)
	}

	if opts.Skip != 0 {
		// A negative skip only comes from an overflowed offset, which lies past the end
		if opts.Skip < 0 || opts.Skip >= len(matched) {
			return []*domain.Task{}, nil
		}
		matched = matched[opts.Skip:]
	}
	if opts.Take > 0 && opts.Take < len(matched) {
		matched = matched[:opts.Take]
	}

	return matched, nil
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(ctx context.Context, filter *domain.TaskFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(s.matching(filter)), nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	updated := patch.Apply(current)
	updated.UpdatedAt = s.now().UTC()
	if !updated.UpdatedAt.After(current.UpdatedAt) {
		updated.UpdatedAt = current.UpdatedAt.Add(time.Microsecond)
	}

	s.tasks[id] = updated
	return updated.Clone(), nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}

	delete(s.tasks, id)
	s.order = slices.DeleteFunc(s.order, func(other uuid.UUID) bool { return other == id })

	return task.Clone(), nil
}

// matching returns clones of the stored tasks accepted by filter, in insertion order.
func (s *TaskStore) matching(filter *domain.TaskFilter) []*domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*domain.Task, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.tasks[id].Clone())
	}

	if filter == nil {
		return all
	}
	return taskquery.Filter(all, *filter)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
