package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/daycare-server/internal/model"
)

// UserStore is a mock type for the model.UserStore interface.
type UserStore struct {
	mock.Mock
}

var _ model.UserStore = (*UserStore)(nil)

func (m *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserStore) FindByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserStore) FindManyPaginated(ctx context.Context, page, pageSize int, opts model.QueryOptions) (model.Page[model.User], error) {
	args := m.Called(ctx, page, pageSize, opts)
	return args.Get(0).(model.Page[model.User]), args.Error(1)
}

func (m *UserStore) SearchUsers(ctx context.Context, term string) ([]model.User, error) {
	args := m.Called(ctx, term)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.UserInsert) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) UpdateMetadata(ctx context.Context, id uuid.UUID, metadata model.Metadata) (model.User, error) {
	args := m.Called(ctx, id, metadata)
	return args.Get(0).(model.User), args.Error(1)
}
