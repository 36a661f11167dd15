package database

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/planify/internal/shared/application"
)

// ErrNoTransaction is returned when committing a context that never began one.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey struct{}

// txScope is what the context carries: the transaction and whether this
// scope opened it. Only the opener commits or rolls back.
type txScope struct {
	tx    Transaction
	owner bool
}

// WithTx attaches tx to ctx. owner marks the scope that must finish it.
func WithTx(ctx context.Context, tx Transaction, owner bool) context.Context {
	return context.WithValue(ctx, txKey{}, txScope{tx: tx, owner: owner})
}

func scopeFrom(ctx context.Context) (txScope, bool) {
	s, ok := ctx.Value(txKey{}).(txScope)
	return s, ok && s.tx != nil
}

// TxFromContext returns the transaction carried by ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	s, _ := scopeFrom(ctx)
	return s.tx
}

// ExecutorFromContext prefers the transaction in ctx over the connection.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// UnitOfWork implements application.UnitOfWork on a Connection. Begin inside
// an open transaction joins it instead of nesting.
type UnitOfWork struct {
	conn Connection
}

var _ application.UnitOfWork = (*UnitOfWork)(nil)

func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if s, ok := scopeFrom(ctx); ok {
		return WithTx(ctx, s.tx, false), nil
	}
	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	return u.finish(ctx, Transaction.Commit)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	return u.finish(ctx, Transaction.Rollback)
}

func (u *UnitOfWork) finish(ctx context.Context, end func(Transaction, context.Context) error) error {
	s, ok := scopeFrom(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !s.owner {
		return nil
	}
	return end(s.tx, ctx)
}

// InTx runs fn in the transaction carried by ctx, or in a fresh one that
// commits when fn succeeds.
func InTx(ctx context.Context, conn Connection, fn func(ctx context.Context) error) error {
	return application.WithUnitOfWork(ctx, NewUnitOfWork(conn), fn)
}
