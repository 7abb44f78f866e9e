package db

import (
	"context"
	"database/sql"
)

// DBTX captures the query methods shared by *sql.DB and *sql.Tx, so a
// repository can run against a plain connection or inside a transaction
// without knowing which one it holds.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Keep both standard handles assignable to DBTX.
var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
