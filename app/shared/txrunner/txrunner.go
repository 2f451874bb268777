// Package txrunner runs service work inside a bun transaction.
package txrunner

import (
	"context"
	"database/sql"

	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/uptrace/bun"
)

// InTx runs fn in a read-committed transaction on db and rolls back when fn
// returns an error. With a nil db, fn runs directly against a nil handle so
// repository fakes can be used in unit tests.
func InTx[T any](ctx context.Context, db *bun.DB, op string, fn func(ctx context.Context, tx bun.IDB) (T, error)) (T, error) {
	if db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = fn(ctx, tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, apperr.Transaction(op, err)
	}
	return result, nil
}
