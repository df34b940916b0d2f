package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/taskquery"
	"github.com/phrazzld/tasks-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// WriteStrategy selects how writes keep the snapshot coherent.
type WriteStrategy string

// Supported write strategies
const (
	// WriteStrategyPatch rewrites the snapshot in place with the store result.
	WriteStrategyPatch WriteStrategy = "patch"
	// WriteStrategyInvalidate deletes every key under the prefix.
	WriteStrategyInvalidate WriteStrategy = "invalidate"
)

// Defaults applied by NewTaskService to zero-valued config fields.
const (
	DefaultCacheTTL       = 300 * time.Second
	DefaultCacheKeyPrefix = "tasks"
)

// TaskServiceConfig configures the caching behaviour of TaskService.
type TaskServiceConfig struct {
	TTL           time.Duration
	KeyPrefix     string
	WriteStrategy WriteStrategy
}

// TaskService defines task operations with look-aside caching.
type TaskService interface {
	// Create persists a new task and reflects it in the snapshot.
	Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)

	// List returns one page of tasks matching the query.
	List(ctx context.Context, query domain.TaskQuery) (*domain.Page[*domain.Task], error)

	// Update applies a partial patch. Returns store.ErrTaskNotFound for unknown ids.
	Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error)

	// Delete removes a task and returns it. Returns store.ErrTaskNotFound for unknown ids.
	Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	store  store.TaskStore
	cache  store.Cache
	cfg    TaskServiceConfig
	locks  *keyedMutex
	logger *slog.Logger
}

// NewTaskService creates a TaskService over the given store and cache.
// It returns an error if a required dependency is nil or the write strategy
// is unknown.
func NewTaskService(
	taskStore store.TaskStore,
	cache store.Cache,
	cfg TaskServiceConfig,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("%w: task store cannot be nil", ErrInvalidConfig)
	}
	if cache == nil {
		return nil, fmt.Errorf("%w: cache cannot be nil", ErrInvalidConfig)
	}

	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultCacheKeyPrefix
	}
	switch cfg.WriteStrategy {
	case "":
		cfg.WriteStrategy = WriteStrategyPatch
	case WriteStrategyPatch, WriteStrategyInvalidate:
	default:
		return nil, fmt.Errorf("%w: unknown write strategy %q", ErrInvalidConfig, cfg.WriteStrategy)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		store:  taskStore,
		cache:  cache,
		cfg:    cfg,
		locks:  newKeyedMutex(),
		logger: logger.With("component", "task_service"),
	}, nil
}

func (s *taskServiceImpl) snapshotKey() string {
	return s.cfg.KeyPrefix + ":all"
}

func (s *taskServiceImpl) invalidationPattern() string {
	return s.cfg.KeyPrefix + ":*"
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.store.Create(ctx, input)
	if err != nil {
		log.Error("failed to create task", "error", err)
		return nil, NewServiceError("task", "create", err)
	}

	s.afterWrite(ctx, "create", true, func(snapshot []*domain.Task) ([]*domain.Task, patchAction) {
		i, found := searchID(snapshot, task.ID)
		if !found {
			return slices.Insert(snapshot, i, task), patchWrite
		}
		// A populate racing with this write may already include the row
		return replaceIfNewer(snapshot, i, task)
	})

	log.Info("task created", "task_id", task.ID)
	return task, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, query domain.TaskQuery) (*domain.Page[*domain.Task], error) {
	query.Normalize()

	if query.Filter.IsEmpty() {
		return s.listAll(ctx, query)
	}
	return s.listFiltered(ctx, query)
}

// listAll serves unfiltered listings from the snapshot, populating it on a miss.
func (s *taskServiceImpl) listAll(ctx context.Context, query domain.TaskQuery) (*domain.Page[*domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, ok := s.readSnapshot(ctx)
	if !ok {
		var err error
		snapshot, err = s.populateSnapshot(ctx)
		if err != nil {
			log.Error("failed to load tasks", "error", err)
			return nil, NewServiceError("task", "list", err)
		}
	}

	page := taskquery.Paginate(taskquery.Sort(snapshot, query.SortBy), query.Page, query.Limit)
	return &page, nil
}

// listFiltered evaluates the filter against the snapshot when present and
// otherwise pushes it down to the store without touching the cache.
func (s *taskServiceImpl) listFiltered(ctx context.Context, query domain.TaskQuery) (*domain.Page[*domain.Task], error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if snapshot, ok := s.readSnapshot(ctx); ok {
		filtered := taskquery.Filter(snapshot, query.Filter)
		page := taskquery.Paginate(taskquery.Sort(filtered, query.SortBy), query.Page, query.Limit)
		return &page, nil
	}

	filter := query.Filter
	var (
		tasks []*domain.Task
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.store.FindMany(gctx, store.TaskFindOptions{
			Filter:  &filter,
			OrderBy: query.SortBy,
			Skip:    query.Skip(),
			Take:    query.Limit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, &filter)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to query filtered tasks", "error", err)
		return nil, NewServiceError("task", "list", err)
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return &domain.Page[*domain.Task]{
		Data: tasks,
		Meta: domain.NewPageMeta(total, query.Page, query.Limit),
	}, nil
}

// populateSnapshot loads every task from the store and caches it. The snapshot
// lock is held across the store read so concurrent writes patch the fresh
// snapshot instead of being overwritten by it.
func (s *taskServiceImpl) populateSnapshot(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	unlock := s.locks.Lock(s.snapshotKey())
	defer unlock()

	// Another request may have populated it while we waited
	if snapshot, ok := s.readSnapshot(ctx); ok {
		return snapshot, nil
	}

	// Id order makes stable in-memory sorts break ties the way the store does
	tasks, err := s.store.FindMany(ctx, store.TaskFindOptions{OrderBy: domain.SortByID})
	if err != nil {
		return nil, err
	}

	if err := s.writeSnapshot(ctx, tasks); err != nil {
		log.Warn("failed to cache task snapshot", "error", err)
	} else {
		log.Debug("task snapshot cached", "count", len(tasks))
	}
	return tasks, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update", "task_id", id)
		} else {
			log.Error("failed to update task", "error", err, "task_id", id)
		}
		return nil, NewServiceError("task", "update", err)
	}

	s.afterWrite(ctx, "update", false, func(snapshot []*domain.Task) ([]*domain.Task, patchAction) {
		i, found := searchID(snapshot, id)
		if !found {
			// The row exists in the store, so a snapshot without it is stale
			return snapshot, patchInvalidate
		}
		return replaceIfNewer(snapshot, i, task)
	})

	log.Info("task updated", "task_id", id)
	return task, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.store.Delete(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for delete", "task_id", id)
		} else {
			log.Error("failed to delete task", "error", err, "task_id", id)
		}
		return nil, NewServiceError("task", "delete", err)
	}

	s.afterWrite(ctx, "delete", false, func(snapshot []*domain.Task) ([]*domain.Task, patchAction) {
		i, found := searchID(snapshot, id)
		if !found {
			// A create whose patch has not landed yet would re-add the row
			return snapshot, patchInvalidate
		}
		return slices.Delete(snapshot, i, i+1), patchWrite
	})

	log.Info("task deleted", "task_id", id)
	return task, nil
}

// patchAction tells afterWrite what to do with a mutated snapshot.
type patchAction int

const (
	// patchSkip leaves the cached snapshot as it is.
	patchSkip patchAction = iota
	// patchWrite stores the mutated snapshot.
	patchWrite
	// patchInvalidate drops the snapshot so the next read repopulates it.
	patchInvalidate
)

// afterWrite brings the cache in line with a completed store write.
// In patch mode mutate is applied to the current snapshot under the snapshot
// lock. invalidateOnMiss clears the prefix when there is no snapshot to patch.
// Errors are logged and swallowed: the store write has already succeeded.
func (s *taskServiceImpl) afterWrite(
	ctx context.Context,
	op string,
	invalidateOnMiss bool,
	mutate func([]*domain.Task) ([]*domain.Task, patchAction),
) {
	log := logger.FromContextOrDefault(ctx, s.logger).With("operation", op)

	if s.cfg.WriteStrategy == WriteStrategyInvalidate {
		s.invalidate(ctx, log)
		return
	}

	unlock := s.locks.Lock(s.snapshotKey())
	defer unlock()

	raw, ok, err := s.cache.Get(ctx, s.snapshotKey())
	if err != nil {
		log.Warn("failed to read task snapshot for patch", "error", err)
		s.invalidate(ctx, log)
		return
	}
	if !ok {
		if invalidateOnMiss {
			s.invalidate(ctx, log)
		}
		return
	}

	snapshot, err := decodeSnapshot(raw)
	if err != nil {
		log.Warn("corrupt task snapshot", "error", err)
		s.invalidate(ctx, log)
		return
	}

	patched, action := mutate(snapshot)
	switch action {
	case patchWrite:
		if err := s.writeSnapshot(ctx, patched); err != nil {
			log.Warn("failed to write patched task snapshot", "error", err)
			s.invalidate(ctx, log)
		}
	case patchInvalidate:
		log.Debug("task snapshot out of step with store, invalidating")
		s.invalidate(ctx, log)
	}
}

// readSnapshot returns the cached collection. Backend errors and undecodable
// payloads are reported as a miss; the latter are also invalidated.
func (s *taskServiceImpl) readSnapshot(ctx context.Context) ([]*domain.Task, bool) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, ok, err := s.cache.Get(ctx, s.snapshotKey())
	if err != nil {
		log.Warn("task snapshot read failed, falling back to store", "error", err)
		return nil, false
	}
	if !ok {
		log.Debug("task snapshot miss")
		return nil, false
	}

	snapshot, err := decodeSnapshot(raw)
	if err != nil {
		log.Warn("corrupt task snapshot, falling back to store", "error", err)
		s.invalidate(ctx, log)
		return nil, false
	}

	log.Debug("task snapshot hit", "count", len(snapshot))
	return snapshot, true
}

func (s *taskServiceImpl) writeSnapshot(ctx context.Context, tasks []*domain.Task) error {
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode task snapshot: %w", err)
	}
	return s.cache.Set(ctx, s.snapshotKey(), raw, s.cfg.TTL)
}

func (s *taskServiceImpl) invalidate(ctx context.Context, log *slog.Logger) {
	if err := s.cache.DeletePattern(ctx, s.invalidationPattern()); err != nil {
		log.Warn("failed to invalidate task cache",
			"error", err,
			"pattern", s.invalidationPattern())
	}
}

func decodeSnapshot(raw []byte) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode task snapshot: %w", err)
	}
	if tasks == nil {
		// "null" is not a valid snapshot
		return nil, fmt.Errorf("failed to decode task snapshot: not an array")
	}
	if slices.Contains(tasks, nil) {
		return nil, fmt.Errorf("failed to decode task snapshot: null entry")
	}
	return tasks, nil
}

// searchID finds id in a snapshot kept in id order, or the position it
// would be inserted at. Byte order of a UUID matches the order of its
// canonical string form.
func searchID(tasks []*domain.Task, id uuid.UUID) (int, bool) {
	return slices.BinarySearchFunc(tasks, id, func(t *domain.Task, id uuid.UUID) int {
		return bytes.Compare(t.ID[:], id[:])
	})
}

// replaceIfNewer swaps in task unless the snapshot already holds the same or
// a later version of it. Store writes give every row a strictly increasing
// updatedAt, so an older result finishing last must not win.
func replaceIfNewer(tasks []*domain.Task, i int, task *domain.Task) ([]*domain.Task, patchAction) {
	if !task.UpdatedAt.After(tasks[i].UpdatedAt) {
		return tasks, patchSkip
	}
	tasks[i] = task
	return tasks, patchWrite
}
