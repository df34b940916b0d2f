// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests are skipped unless DATABASE_URL (or TASKS_TEST_DB_URL) is set. The
// schema is created from the migrations embedded in the postgres package, and
// each test runs in its own transaction that is rolled back on completion, so
// tests can run in parallel without cleanup.
//
//	func TestMyFeature(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.SetupTestDatabaseSchema(t, db)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        taskStore := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
