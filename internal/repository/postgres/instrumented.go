package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// QueryObserver receives the outcome of every query.
type QueryObserver interface {
	ObserveQuery(operation, table string, d time.Duration, err error)
}

var _ DBTX = (*InstrumentedDB)(nil)

// InstrumentedDB reports query timings to a QueryObserver.
type InstrumentedDB struct {
	next     DBTX
	observer QueryObserver
}

func NewInstrumentedDB(next DBTX, observer QueryObserver) *InstrumentedDB {
	return &InstrumentedDB{next: next, observer: observer}
}

func (d *InstrumentedDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := d.next.GetContext(ctx, dest, query, args...)
	d.observe(query, start, err)
	return err
}

func (d *InstrumentedDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := d.next.SelectContext(ctx, dest, query, args...)
	d.observe(query, start, err)
	return err
}

func (d *InstrumentedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.next.ExecContext(ctx, query, args...)
	d.observe(query, start, err)
	return res, err
}

func (d *InstrumentedDB) observe(query string, start time.Time, err error) {
	// A lookup that found nothing is a successful query.
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	op, table := describeQuery(query)
	d.observer.ObserveQuery(op, table, time.Since(start), err)
}

// describeQuery returns the statement keyword and the first table it names.
func describeQuery(query string) (operation, table string) {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "OTHER", ""
	}

	operation = strings.ToUpper(fields[0])
	var marker string
	switch operation {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		if len(fields) > 1 {
			return operation, fields[1]
		}
		return operation, ""
	default:
		return "OTHER", ""
	}

	for i := 1; i < len(fields)-1; i++ {
		if strings.EqualFold(fields[i], marker) {
			return operation, fields[i+1]
		}
	}
	return operation, ""
}
