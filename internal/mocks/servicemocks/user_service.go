package servicemocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/daycare-server/internal/model"
	"github.com/dtroode/daycare-server/internal/service"
)

// UserService is a mock type for the handler.UserService interface.
type UserService struct {
	mock.Mock
}

func (m *UserService) CreateUser(ctx context.Context, params service.CreateUserParams) (model.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) ListUsers(ctx context.Context, page, pageSize int) (model.Page[model.User], error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).(model.Page[model.User]), args.Error(1)
}

func (m *UserService) SearchUsers(ctx context.Context, term string) ([]model.User, error) {
	args := m.Called(ctx, term)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserService) UsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserService) ReplaceMetadata(ctx context.Context, id uuid.UUID, metadata model.Metadata) (model.User, error) {
	args := m.Called(ctx, id, metadata)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserService) MergeMetadata(ctx context.Context, id uuid.UUID, patch model.Metadata) (model.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.User), args.Error(1)
}
