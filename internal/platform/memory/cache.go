package memory

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/phrazzld/tasks-api/internal/store"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// Cache is an in-process store.Cache with lazy expiry.
// Patterns follow path.Match, which agrees with Redis MATCH for keys
// without '/'.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// Ensure Cache implements store.Cache interface
var _ store.Cache = (*Cache)(nil)

// NewCache returns an empty cache using the wall clock.
func NewCache() *Cache {
	return NewCacheWithClock(time.Now)
}

// NewCacheWithClock returns an empty cache reading time from now.
func NewCacheWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

// Get implements store.Cache.Get
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.expired(entry) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return bytes.Clone(entry.value), true, nil
}

// Set implements store.Cache.Set
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := cacheEntry{value: bytes.Clone(value)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// DeletePattern implements store.Cache.DeletePattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid cache key pattern %q: %w", pattern, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, entry := range c.entries {
		if !c.expired(entry) {
			n++
		}
	}
	return n
}

func (c *Cache) expired(entry cacheEntry) bool {
	return !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt)
}
