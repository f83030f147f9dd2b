package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByRole(ctx context.Context, role Role) ([]User, error)
	FindManyPaginated(ctx context.Context, page, pageSize int, opts QueryOptions) (Page[User], error)
	SearchUsers(ctx context.Context, term string) ([]User, error)
	Create(ctx context.Context, user UserInsert) (User, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata Metadata) (User, error)
}

// Role determines what a user is allowed to do in calling code.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleParent Role = "parent"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleParent:
		return true
	}
	return false
}

// User is a stored users row.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      *string   `db:"name" json:"name"`
	Role      Role      `db:"role" json:"role"`
	Metadata  Metadata  `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// UserInsert holds the values accepted when creating a user.
// Nil fields fall back to store defaults.
type UserInsert struct {
	ID       *uuid.UUID
	Email    string
	Name     *string
	Role     *Role
	Metadata Metadata
}

// Columns implements Writable.
func (u UserInsert) Columns() []Column {
	cols := make([]Column, 0, 5)
	if u.ID != nil {
		cols = append(cols, Column{Name: "id", Value: *u.ID})
	}
	cols = append(cols, Column{Name: "email", Value: u.Email})
	if u.Name != nil {
		cols = append(cols, Column{Name: "name", Value: *u.Name})
	}
	if u.Role != nil {
		cols = append(cols, Column{Name: "role", Value: string(*u.Role)})
	}
	if u.Metadata != nil {
		cols = append(cols, Column{Name: "metadata", Value: u.Metadata})
	}
	return cols
}

// UserUpdate is a partial users update. Nil fields are left untouched.
type UserUpdate struct {
	Email    *string
	Name     *string
	Role     *Role
	Metadata Metadata
}

// Columns implements Writable.
func (u UserUpdate) Columns() []Column {
	var cols []Column
	if u.Email != nil {
		cols = append(cols, Column{Name: "email", Value: *u.Email})
	}
	if u.Name != nil {
		cols = append(cols, Column{Name: "name", Value: *u.Name})
	}
	if u.Role != nil {
		cols = append(cols, Column{Name: "role", Value: string(*u.Role)})
	}
	if u.Metadata != nil {
		cols = append(cols, Column{Name: "metadata", Value: u.Metadata})
	}
	return cols
}
