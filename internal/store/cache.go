package store

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. A missing or expired key
	// yields (nil, false, nil); err is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	// A ttl of zero or less stores the value without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeletePattern removes every key matching the glob pattern
	// (Redis MATCH syntax: *, ?, [...]).
	DeletePattern(ctx context.Context, pattern string) error
}
