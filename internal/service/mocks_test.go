package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// countingStore wraps a TaskStore and counts read calls.
type countingStore struct {
	store.TaskStore
	findMany atomic.Int32
	count    atomic.Int32
}

func (c *countingStore) FindMany(ctx context.Context, opts store.TaskFindOptions) ([]*domain.Task, error) {
	c.findMany.Add(1)
	return c.TaskStore.FindMany(ctx, opts)
}

func (c *countingStore) Count(ctx context.Context, filter *domain.TaskFilter) (int, error) {
	c.count.Add(1)
	return c.TaskStore.Count(ctx, filter)
}

func (c *countingStore) reads() int {
	return int(c.findMany.Load() + c.count.Load())
}

func (c *countingStore) reset() {
	c.findMany.Store(0)
	c.count.Store(0)
}

// gatedStore wraps a TaskStore and parks the write whose result carries
// holdTitle after the store call returns, until release is closed.
type gatedStore struct {
	store.TaskStore
	holdTitle string
	held      chan struct{}
	release   chan struct{}
}

func newGatedStore(inner store.TaskStore, holdTitle string) *gatedStore {
	return &gatedStore{
		TaskStore: inner,
		holdTitle: holdTitle,
		held:      make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (g *gatedStore) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	task, err := g.TaskStore.Create(ctx, input)
	g.gate(task)
	return task, err
}

func (g *gatedStore) Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error) {
	task, err := g.TaskStore.Update(ctx, id, patch)
	g.gate(task)
	return task, err
}

func (g *gatedStore) gate(task *domain.Task) {
	if task == nil || task.Title != g.holdTitle {
		return
	}
	close(g.held)
	<-g.release
}

// MockTaskStore mocks the store.TaskStore interface
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) FindMany(ctx context.Context, opts store.TaskFindOptions) ([]*domain.Task, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Count(ctx context.Context, filter *domain.TaskFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockTaskStore) Update(ctx context.Context, id uuid.UUID, patch domain.UpdateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

// MockCache mocks the store.Cache interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	var value []byte
	if v := args.Get(0); v != nil {
		value = v.([]byte)
	}
	return value, args.Bool(1), args.Error(2)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}
