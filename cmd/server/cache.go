package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/platform/redis"
	"github.com/phrazzld/tasks-api/internal/store"
)

// cachePingTimeout bounds the startup connectivity check.
const cachePingTimeout = 5 * time.Second

// setupCache builds the cache selected by cfg.Driver. The closer is nil for
// the memory driver.
func setupCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (store.Cache, io.Closer, error) {
	switch cfg.Driver {
	case "memory":
		logger.Info("Using in-process snapshot cache")
		return memory.NewCache(), nil, nil
	case "redis":
		pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
		defer cancel()

		c, err := redis.Open(pingCtx, cfg.URL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to cache: %w", err)
		}
		logger.Info("Cache connection established",
			"ttl_seconds", cfg.TTLSeconds,
			"key_prefix", cfg.KeyPrefix)
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache driver %q", cfg.Driver)
	}
}
