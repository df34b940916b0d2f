// Package memory provides process-local implementations of the task store
// and the cache. They back the "memory" drivers for local development and
// are used throughout the test suite in place of PostgreSQL and Redis.
package memory
