package main

import (
	"net"
	"sort"
	"testing"

	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestMigrationCommands(t *testing.T) {
	names := make([]string, 0, len(migrationCommands))
	for name := range migrationCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"down", "reset", "status", "up", "version"}, names)
	assert.Equal(t, testdb.MigrationTableName, MigrationTableName)
}

func TestHandleMigrationsRejectsBadInput(t *testing.T) {
	cfg := testConfig()
	err := handleMigrations(cfg, "up", discardLogger())
	assert.ErrorContains(t, err, "require the postgres driver")

	cfg.Database.Driver = "postgres"
	cfg.Database.URL = "postgres://unused"
	err = handleMigrations(cfg, "sideways", discardLogger())
	assert.ErrorContains(t, err, "unknown migration command")
}

func TestRunMigrations(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	require.NoError(t, runMigrations(db, "up", discardLogger()))
	require.NoError(t, runMigrations(db, "version", discardLogger()))
	require.NoError(t, runMigrations(db, "status", discardLogger()))

	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables WHERE table_name = 'tasks'
	)`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
}
