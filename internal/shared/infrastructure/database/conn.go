// Package database puts SQLite and PostgreSQL behind one executor interface.
// Queries are written with ? placeholders and each connection rebinds them
// for its driver.
package database

import (
	"context"
	"database/sql"
)

// Row is a single-row result. *sql.Row and pgx.Row both satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a cursor over a multi-row result.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the outcome of an Exec.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements. Repositories take it from ExecutorFromContext
// so they work the same inside and outside a transaction.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that must be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle that can open transactions.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

// sqlQuerier is the part of *sql.DB and *sql.Tx the executor needs.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type sqlExecutor struct {
	q      sqlQuerier
	driver Driver
}

func (e sqlExecutor) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := e.q.ExecContext(ctx, Rebind(e.driver, query), args...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (e sqlExecutor) QueryRow(ctx context.Context, query string, args ...any) Row {
	return e.q.QueryRowContext(ctx, Rebind(e.driver, query), args...)
}

func (e sqlExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := e.q.QueryContext(ctx, Rebind(e.driver, query), args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SQLConnection adapts a database/sql handle to Connection.
type SQLConnection struct {
	sqlExecutor
	db *sql.DB
}

// NewSQLConnection wraps db. The driver decides the placeholder style.
func NewSQLConnection(db *sql.DB, driver Driver) *SQLConnection {
	return &SQLConnection{sqlExecutor: sqlExecutor{q: db, driver: driver}, db: db}
}

// DB exposes the handle for migrations.
func (c *SQLConnection) DB() *sql.DB { return c.db }

func (c *SQLConnection) Driver() Driver { return c.driver }

func (c *SQLConnection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *SQLConnection) Close() error { return c.db.Close() }

func (c *SQLConnection) BeginTx(ctx context.Context) (Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTx{sqlExecutor: sqlExecutor{q: tx, driver: c.driver}, tx: tx}, nil
}

type sqlTx struct {
	sqlExecutor
	tx *sql.Tx
}

func (t *sqlTx) Commit(context.Context) error { return t.tx.Commit() }
func (t *sqlTx) Rollback(context.Context) error { return t.tx.Rollback() }
