package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"

	"github.com/dtroode/daycare-server/internal/model"
)

// normalize converts any error returned by the store into a *model.StoreError.
// The original error stays reachable through errors.Is and errors.As.
func normalize(err error) error {
	if err == nil {
		return nil
	}

	var se *model.StoreError
	if errors.As(err, &se) {
		return se
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model.NewStoreError(model.CodeNoRows, "no rows returned", errors.Join(model.ErrNotFound, err))
	case errors.As(err, &pgErr):
		return model.NewStoreError(pgErr.Code, pgErr.Message, err).WithDetails(pgErr.Detail, pgErr.Hint)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return model.NewStoreError(model.CodeUnavailable, "database unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		return model.NewStoreError(model.CodeTimeout, "query timed out", err)
	case errors.Is(err, context.Canceled):
		return model.NewStoreError(model.CodeCanceled, "query canceled", err)
	default:
		return model.NewStoreError("", err.Error(), err)
	}
}
