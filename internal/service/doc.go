// Package service holds the account use cases: admin and user lifecycle,
// role lookups, activation and password reset mails, and the remote error
// report sink.
//
// Services depend on the store interfaces only. Operations that touch more
// than one table run inside store.RunInTransaction when a *sql.DB is
// configured; with a nil DB (tests, in-memory stores) they run directly.
//
// Errors from the store and domain layers are translated into the sentinel
// errors in errors.go so handlers can map them to HTTP statuses without
// knowing about persistence.
//
// Token issuing lives in service/auth and the role gate in service/authz.
package service
