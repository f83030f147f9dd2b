package model

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ChildStore defines persistence operations for children.
type ChildStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Child, error)
	FindByParent(ctx context.Context, parentID uuid.UUID) ([]Child, error)
	FindByClassroom(ctx context.Context, classroom string) ([]Child, error)
	FindByStatus(ctx context.Context, status ChildStatus) ([]Child, error)
	FindByAgeGroup(ctx context.Context, minMonths, maxMonths int) ([]Child, error)
	FindManyPaginated(ctx context.Context, page, pageSize int, opts QueryOptions) (Page[Child], error)
	SearchChildren(ctx context.Context, term string) ([]Child, error)
	Create(ctx context.Context, child ChildInsert) (Child, error)
	UpdateClassroom(ctx context.Context, id uuid.UUID, classroom *string) (Child, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ChildStatus) (Child, error)
	GetChildrenWithAllergies(ctx context.Context) ([]Child, error)
	GetClassroomStatistics(ctx context.Context) (map[string]int, error)
	RefreshAgeMonths(ctx context.Context) (int64, error)
}

// ChildStatus is the enrollment state of a child.
type ChildStatus string

const (
	ChildStatusActive   ChildStatus = "active"
	ChildStatusInactive ChildStatus = "inactive"
	ChildStatusWaitlist ChildStatus = "waitlist"
)

// Valid reports whether s is a known status.
func (s ChildStatus) Valid() bool {
	switch s {
	case ChildStatusActive, ChildStatusInactive, ChildStatusWaitlist:
		return true
	}
	return false
}

// Child is a stored children row. AgeMonths is maintained by the database.
type Child struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	ParentID       uuid.UUID      `db:"parent_id" json:"parent_id"`
	FirstName      string         `db:"first_name" json:"first_name"`
	LastName       string         `db:"last_name" json:"last_name"`
	DateOfBirth    time.Time      `db:"date_of_birth" json:"date_of_birth"`
	AgeMonths      int            `db:"age_months" json:"age_months"`
	Classroom      *string        `db:"classroom" json:"classroom"`
	Allergies      pq.StringArray `db:"allergies" json:"allergies"`
	Status         ChildStatus    `db:"status" json:"status"`
	EnrollmentDate *time.Time     `db:"enrollment_date" json:"enrollment_date"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// ChildInsert holds the values accepted when creating a child.
type ChildInsert struct {
	ID             *uuid.UUID
	ParentID       uuid.UUID
	FirstName      string
	LastName       string
	DateOfBirth    time.Time
	Classroom      *string
	Allergies      []string
	Status         *ChildStatus
	EnrollmentDate *time.Time
}

// Columns implements Writable. An empty allergy list is stored as NULL.
func (c ChildInsert) Columns() []Column {
	cols := make([]Column, 0, 9)
	if c.ID != nil {
		cols = append(cols, Column{Name: "id", Value: *c.ID})
	}
	cols = append(cols,
		Column{Name: "parent_id", Value: c.ParentID},
		Column{Name: "first_name", Value: c.FirstName},
		Column{Name: "last_name", Value: c.LastName},
		Column{Name: "date_of_birth", Value: c.DateOfBirth},
	)
	if c.Classroom != nil {
		cols = append(cols, Column{Name: "classroom", Value: *c.Classroom})
	}
	if len(c.Allergies) > 0 {
		cols = append(cols, Column{Name: "allergies", Value: pq.StringArray(c.Allergies)})
	}
	if c.Status != nil {
		cols = append(cols, Column{Name: "status", Value: string(*c.Status)})
	}
	if c.EnrollmentDate != nil {
		cols = append(cols, Column{Name: "enrollment_date", Value: *c.EnrollmentDate})
	}
	return cols
}

// ChildUpdate is a partial children update. Nil fields are left untouched;
// nullable columns are cleared with an invalid sql.Null.
type ChildUpdate struct {
	ParentID       *uuid.UUID
	FirstName      *string
	LastName       *string
	DateOfBirth    *time.Time
	Classroom      *sql.Null[string]
	Allergies      *[]string
	Status         *ChildStatus
	EnrollmentDate *sql.Null[time.Time]
}

// Columns implements Writable.
func (c ChildUpdate) Columns() []Column {
	var cols []Column
	if c.ParentID != nil {
		cols = append(cols, Column{Name: "parent_id", Value: *c.ParentID})
	}
	if c.FirstName != nil {
		cols = append(cols, Column{Name: "first_name", Value: *c.FirstName})
	}
	if c.LastName != nil {
		cols = append(cols, Column{Name: "last_name", Value: *c.LastName})
	}
	if c.DateOfBirth != nil {
		cols = append(cols, Column{Name: "date_of_birth", Value: *c.DateOfBirth})
	}
	if c.Classroom != nil {
		cols = append(cols, Column{Name: "classroom", Value: *c.Classroom})
	}
	if c.Allergies != nil {
		var v any
		if len(*c.Allergies) > 0 {
			v = pq.StringArray(*c.Allergies)
		}
		cols = append(cols, Column{Name: "allergies", Value: v})
	}
	if c.Status != nil {
		cols = append(cols, Column{Name: "status", Value: string(*c.Status)})
	}
	if c.EnrollmentDate != nil {
		cols = append(cols, Column{Name: "enrollment_date", Value: *c.EnrollmentDate})
	}
	return cols
}
