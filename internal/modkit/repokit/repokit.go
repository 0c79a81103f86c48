// Package repokit binds domain repositories to a query surface so one
// repo implementation serves both pooled calls and transactions
package repokit

import (
	"context"

	"tdsdesk/internal/platform/store"
)

type (
	// Queryer is the read and write surface a repo is bound to
	Queryer = store.RowQuerier
	// TxRunner is a Queryer that can open transactions
	TxRunner = store.TxRunner
)

// Binder builds a repo of type T over a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a function to Binder
type BindFunc[T any] func(Queryer) T

// Bind implements Binder
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// InTx runs fn with a repo bound to a fresh transaction; an error from fn rolls it back
func InTx[T any](ctx context.Context, db TxRunner, b Binder[T], fn func(T) error) error {
	return db.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}
