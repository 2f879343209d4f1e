package store

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the PostgreSQL config, practical support and
// history stores run on. A store built on *sql.DB autocommits each
// statement; one built on the *sql.Tx of WithTransaction joins that
// transaction, which is how Autosetup commits its batch or none of it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
