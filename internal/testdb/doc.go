//go:build integration

// Package testdb provides utilities for database integration tests.
//
// Tests run against the database named by ACCOUNT_TEST_DATABASE_URL or
// DATABASE_URL and are skipped when neither is set. The schema is migrated
// once per test binary from the embedded migrations, and every test runs in
// its own transaction that is rolled back when the test ends:
//
//	func TestUserStore(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			users := postgres.NewPostgresUserStore(tx, logger)
//			// ...
//		})
//	}
package testdb
