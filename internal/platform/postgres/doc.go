// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles query construction, execution through store.DBTX, mapping of
// rows to domain tasks and translation of driver errors into store
// sentinels. The schema is shipped as embedded goose migrations.
package postgres
