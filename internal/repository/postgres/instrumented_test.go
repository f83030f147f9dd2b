package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/testutil"
)

type observation struct {
	operation string
	table     string
	err       error
}

type recordingObserver struct {
	seen []observation
}

func (o *recordingObserver) ObserveQuery(operation, table string, _ time.Duration, err error) {
	o.seen = append(o.seen, observation{operation: operation, table: table, err: err})
}

func TestDescribeQuery(t *testing.T) {
	tests := []struct {
		query string
		op    string
		table string
	}{
		{query: "SELECT id, email FROM users WHERE id = $1", op: "SELECT", table: "users"},
		{query: "SELECT COUNT(*) FROM children", op: "SELECT", table: "children"},
		{query: "INSERT INTO children (first_name) VALUES ($1) RETURNING id", op: "INSERT", table: "children"},
		{query: "UPDATE users SET metadata = $1 WHERE id = $2", op: "UPDATE", table: "users"},
		{query: "DELETE FROM children WHERE id = ANY($1::uuid[])", op: "DELETE", table: "children"},
		{query: "select 1", op: "SELECT", table: ""},
		{query: "VACUUM", op: "OTHER", table: ""},
		{query: "   ", op: "OTHER", table: ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			op, table := describeQuery(tt.query)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.table, table)
		})
	}
}

func TestInstrumentedDB(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	obs := &recordingObserver{}
	repos := NewRepositories(NewInstrumentedDB(db, obs))
	ctx := context.Background()

	id := uuid.New()
	mock.ExpectQuery(q("SELECT " + userFields + " FROM users WHERE id = $1")).WithArgs(id).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(q("SELECT COUNT(*) FROM children")).WillReturnError(errors.New("boom"))
	mock.ExpectExec(q("DELETE FROM children WHERE id = $1")).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	u, err := repos.Users.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = repos.Children.Count(ctx, nil)
	require.Error(t, err)

	require.NoError(t, repos.Children.Delete(ctx, id))

	require.Len(t, obs.seen, 3)
	assert.Equal(t, observation{operation: "SELECT", table: "users"}, obs.seen[0])
	assert.Equal(t, "children", obs.seen[1].table)
	assert.EqualError(t, obs.seen[1].err, "boom")
	assert.Equal(t, observation{operation: "DELETE", table: "children"}, obs.seen[2])
}

func TestNewRepositories(t *testing.T) {
	db, _ := testutil.NewMockDB(t)
	repos := NewRepositories(db)

	require.NotNil(t, repos.Users)
	require.NotNil(t, repos.Children)
	assert.Equal(t, db, repos.Users.db)
	assert.Equal(t, db, repos.Children.db)

	var _ model.UserStore = repos.Users
	var _ model.ChildStore = repos.Children
}
