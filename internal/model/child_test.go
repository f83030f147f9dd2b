package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func TestChildInsert_Columns(t *testing.T) {
	parent := uuid.New()
	dob := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("required only", func(t *testing.T) {
		cols := ChildInsert{ParentID: parent, FirstName: "Emma", LastName: "Johnson", DateOfBirth: dob}.Columns()
		assert.Equal(t, []string{"parent_id", "first_name", "last_name", "date_of_birth"}, columnNames(cols))
	})

	t.Run("empty allergies are omitted", func(t *testing.T) {
		cols := ChildInsert{ParentID: parent, FirstName: "Emma", LastName: "Johnson", DateOfBirth: dob, Allergies: []string{}}.Columns()
		assert.NotContains(t, columnNames(cols), "allergies")
	})

	t.Run("all fields", func(t *testing.T) {
		id := uuid.New()
		room := "Busy Bees"
		status := ChildStatusActive
		cols := ChildInsert{
			ID: &id, ParentID: parent, FirstName: "Emma", LastName: "Johnson", DateOfBirth: dob,
			Classroom: &room, Allergies: []string{"peanuts"}, Status: &status, EnrollmentDate: &dob,
		}.Columns()
		assert.Equal(t, []string{
			"id", "parent_id", "first_name", "last_name", "date_of_birth",
			"classroom", "allergies", "status", "enrollment_date",
		}, columnNames(cols))
		assert.Equal(t, pq.StringArray{"peanuts"}, cols[6].Value)
		assert.Equal(t, "active", cols[7].Value)
	})
}

func TestChildUpdate_Columns(t *testing.T) {
	cleared := []string{}
	cols := ChildUpdate{
		Classroom: &sql.Null[string]{},
		Allergies: &cleared,
	}.Columns()

	assert.Equal(t, []string{"classroom", "allergies"}, columnNames(cols))
	assert.Equal(t, sql.Null[string]{}, cols[0].Value)
	assert.Nil(t, cols[1].Value)
	assert.Empty(t, ChildUpdate{}.Columns())
}

func TestChildStatus_Valid(t *testing.T) {
	assert.True(t, ChildStatusWaitlist.Valid())
	assert.False(t, ChildStatus("graduated").Valid())
	assert.True(t, RoleStaff.Valid())
	assert.False(t, Role("guest").Valid())
}
