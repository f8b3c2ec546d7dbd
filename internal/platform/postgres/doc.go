// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx stdlib driver.
//
// Every store accepts a store.DBTX: given a *sql.DB, multi-statement writes
// open their own transaction; given a *sql.Tx (via WithTx), they join the
// caller's. Driver errors pass through MapError so unique violations surface
// as store.ErrIdentityExists or store.ErrEmailExists.
//
// The schema lives in the migrations subpackage and is applied with goose.
package postgres
