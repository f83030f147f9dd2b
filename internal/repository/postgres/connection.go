package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/dtroode/daycare-server/database"
)

// Connection owns the pgx pool and the database/sql handle built on it.
type Connection struct {
	*pgxpool.Pool
	db *sqlx.DB
}

// ConnectionOptions tunes NewConection.
type ConnectionOptions struct {
	MaxConns int32
	Migrate  bool
}

func NewConection(ctx context.Context, dsn string, opts ConnectionOptions) (*Connection, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		conf.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection pool: %w", err)
	}

	db := sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")

	if opts.Migrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			db.Close()
			pool.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	return &Connection{
		Pool: pool,
		db:   db,
	}, nil
}

// DB returns the sqlx handle the repositories run on.
func (s *Connection) DB() *sqlx.DB {
	return s.db
}

func (s *Connection) Close() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Connection) Ping(ctx context.Context) error {
	if s.Pool == nil {
		return fmt.Errorf("connection pool is nil")
	}
	return s.Pool.Ping(ctx)
}
