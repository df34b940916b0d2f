// Package store defines the persistence and cache interfaces the task
// service depends on. Implementations live under internal/platform, keeping
// the coordinator independent of PostgreSQL and Redis specifics.
package store
