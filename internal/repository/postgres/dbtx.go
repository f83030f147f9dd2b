package postgres

import (
	"context"
	"database/sql"
)

// DBTX executes queries for the repositories.
// It is implemented by *sqlx.DB, *sqlx.Tx and the instrumented wrappers.
type DBTX interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
