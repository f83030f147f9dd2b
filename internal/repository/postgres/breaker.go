package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
)

var _ DBTX = (*BreakerDB)(nil)

// BreakerSettings configures NewCircuitBreaker.
type BreakerSettings struct {
	MaxFailures   uint32
	OpenTimeout   time.Duration
	OnStateChange func(name string, from, to gobreaker.State)
}

// NewCircuitBreaker creates a breaker that opens after MaxFailures
// consecutive failures and probes again after OpenTimeout.
func NewCircuitBreaker(name string, s BreakerSettings) *gobreaker.CircuitBreaker {
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 10 * time.Second
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		IsSuccessful:  IsBreakerSuccess,
		OnStateChange: s.OnStateChange,
	})
}

// BreakerDB rejects queries while the database keeps failing.
// Lookups that find nothing and constraint violations do not count as
// failures; only errors that suggest the database itself is unhealthy do.
type BreakerDB struct {
	next DBTX
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerDB(next DBTX, cb *gobreaker.CircuitBreaker) *BreakerDB {
	return &BreakerDB{next: next, cb: cb}
}

func (d *BreakerDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	_, err := d.cb.Execute(func() (any, error) {
		return nil, d.next.GetContext(ctx, dest, query, args...)
	})
	return err
}

func (d *BreakerDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	_, err := d.cb.Execute(func() (any, error) {
		return nil, d.next.SelectContext(ctx, dest, query, args...)
	})
	return err
}

func (d *BreakerDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := d.cb.Execute(func() (any, error) {
		return d.next.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return res.(sql.Result), nil
}

// IsBreakerSuccess classifies query errors for gobreaker.Settings.IsSuccessful.
func IsBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, sql.ErrNoRows) || errors.Is(err, context.Canceled) {
		return true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// Connection exceptions, resource exhaustion, operator intervention and
	// system errors trip the breaker; anything else came from a healthy server.
	if len(pgErr.Code) < 2 {
		return true
	}
	switch pgErr.Code[:2] {
	case "08", "53", "57", "58":
		return false
	}
	return true
}
