package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/testutil"
)

func TestIsBreakerSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: true},
		{name: "no rows", err: sql.ErrNoRows, want: true},
		{name: "canceled", err: context.Canceled, want: true},
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, want: true},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, want: false},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: false},
		{name: "admin shutdown", err: &pgconn.PgError{Code: "57P01"}, want: false},
		{name: "io error", err: &pgconn.PgError{Code: "58030"}, want: false},
		{name: "short code", err: &pgconn.PgError{Code: "X"}, want: true},
		{name: "network error", err: errors.New("dial tcp: connection refused"), want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBreakerSuccess(tt.err))
		})
	}
}

func TestBreakerDB_OpensAfterFailures(t *testing.T) {
	db, mock := testutil.NewMockDB(t)

	var transitions []gobreaker.State
	cb := NewCircuitBreaker("postgres", BreakerSettings{
		MaxFailures: 2,
		OpenTimeout: time.Minute,
		OnStateChange: func(_ string, _, to gobreaker.State) {
			transitions = append(transitions, to)
		},
	})
	repo := NewUserRepository(NewBreakerDB(db, cb))

	query := q("SELECT " + userFields + " FROM users WHERE id = $1")
	down := &pgconn.PgError{Code: "57P03", Message: "the database system is starting up"}
	mock.ExpectQuery(query).WillReturnError(down)
	mock.ExpectQuery(query).WillReturnError(down)

	ctx := context.Background()
	for range 2 {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.Equal(t, "57P03", model.ErrorCode(err))
	}

	_, err := repo.FindByID(ctx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, model.CodeUnavailable, model.ErrorCode(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, []gobreaker.State{gobreaker.StateOpen}, transitions)
	assert.Equal(t, gobreaker.StateOpen, cb.State())
}

func TestBreakerDB_IgnoresClientErrors(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	cb := NewCircuitBreaker("postgres", BreakerSettings{MaxFailures: 1})
	repo := NewUserRepository(NewBreakerDB(db, cb))

	insert := q("INSERT INTO users (email) VALUES ($1) RETURNING " + userFields)
	for range 3 {
		mock.ExpectQuery(insert).WillReturnError(&pgconn.PgError{Code: model.CodeUniqueViolation})
	}

	for range 3 {
		_, err := repo.Create(context.Background(), model.UserInsert{Email: "dup@example.com"})
		assert.True(t, model.IsUniqueViolation(err))
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}

func TestBreakerDB_Exec(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	cb := NewCircuitBreaker("postgres", BreakerSettings{})
	repo := NewChildRepository(NewBreakerDB(db, cb))

	id := uuid.New()
	mock.ExpectExec(q("DELETE FROM children WHERE id = $1")).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), id))
}
