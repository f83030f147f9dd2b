package postgres

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const usersTable = "users"

var userColumns = []string{"id", "email", "name", "role", "metadata", "created_at", "updated_at"}

// searchLimit caps the rows returned by the search finders.
const searchLimit = 20

type UserRepository struct {
	*Table[model.User, model.UserInsert, model.UserUpdate]
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{
		Table: NewTable[model.User, model.UserInsert, model.UserUpdate](db, usersTable, userColumns),
	}
}

// FindByEmail returns the user with exactly this email, or nil.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getWhere(ctx, "email = $1", email)
}

// FindByRole returns users with the role, newest first.
func (r *UserRepository) FindByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.selectWhere(ctx, "role = $1 ORDER BY created_at DESC", string(role))
}

// UpdateMetadata replaces the metadata document of a user.
func (r *UserRepository) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata model.Metadata) (model.User, error) {
	if metadata == nil {
		metadata = model.Metadata{}
	}
	return r.updateColumns(ctx, id, []model.Column{{Name: "metadata", Value: metadata}})
}

func (r *UserRepository) GetAdmins(ctx context.Context) ([]model.User, error) {
	return r.FindByRole(ctx, model.RoleAdmin)
}

func (r *UserRepository) GetStaff(ctx context.Context) ([]model.User, error) {
	return r.FindByRole(ctx, model.RoleStaff)
}

func (r *UserRepository) GetParents(ctx context.Context) ([]model.User, error) {
	return r.FindByRole(ctx, model.RoleParent)
}

// SearchUsers matches term case-insensitively against email or name.
func (r *UserRepository) SearchUsers(ctx context.Context, term string) ([]model.User, error) {
	return r.selectWhere(ctx,
		`(email ILIKE $1 OR name ILIKE $1) ORDER BY name ASC LIMIT $2`,
		containsPattern(term), searchLimit,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term as a literal substring.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
