package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// txContextKey keeps the transaction value private to this package.
type txContextKey struct{}

// WithTx returns a context carrying the transaction. Repositories that
// check the context, like the Postgres session store, route their
// statements through the transaction instead of the pool, so a session
// write commits or rolls back together with the surrounding domain
// writes. A nil tx returns the context unchanged.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext extracts a transaction attached with WithTx. The second
// return value reports whether one was present.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(pgx.Tx)
	return tx, ok
}
