package postgres

import (
	"context"
	"database/sql"

	"github.com/phrazzld/account-api/internal/store"
)

// inTx runs fn inside a new transaction when db is a *sql.DB and directly on db
// when it is already a transaction.
func inTx(ctx context.Context, db store.DBTX, fn func(q store.DBTX) error) error {
	if sqlDB, ok := db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, sqlDB, func(ctx context.Context, tx *sql.Tx) error {
			return fn(tx)
		})
	}
	return fn(db)
}
