package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// scanBatchSize is the COUNT hint passed to SCAN and the DEL batch size.
const scanBatchSize = 100

// Cache implements store.Cache against a Redis server.
type Cache struct {
	client *goredis.Client
	logger *slog.Logger
}

// Ensure Cache implements store.Cache interface
var _ store.Cache = (*Cache)(nil)

// NewCache wraps an existing client.
func NewCache(client *goredis.Client, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client: client,
		logger: logger.With(slog.String("component", "redis_cache")),
	}
}

// Open parses a redis:// URL, connects and pings the server.
func Open(ctx context.Context, url string, logger *slog.Logger) (*Cache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewCache(client, logger), nil
}

// Get implements store.Cache.Get
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements store.Cache.Set
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// DeletePattern implements store.Cache.DeletePattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan %q: %w", pattern, err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return fmt.Errorf("redis del for pattern %q: %w", pattern, err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.DebugContext(ctx, "deleted cache keys",
		slog.String("pattern", pattern),
		slog.Int64("count", deleted))
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *Cache) Close() error {
	return c.client.Close()
}
