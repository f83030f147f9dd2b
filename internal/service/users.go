package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/model"
)

// CreateUserParams holds the input for Users.CreateUser.
type CreateUserParams struct {
	Email    string
	Name     *string
	Role     model.Role
	Metadata model.Metadata
}

type Users struct {
	userStore model.UserStore
	logger    *logger.Logger
}

func NewUsers(userStore model.UserStore, logger *logger.Logger) *Users {
	return &Users{
		userStore: userStore,
		logger:    logger,
	}
}

func (s *Users) CreateUser(ctx context.Context, params CreateUserParams) (model.User, error) {
	in := model.UserInsert{
		Email:    strings.TrimSpace(params.Email),
		Name:     params.Name,
		Metadata: params.Metadata,
	}
	if params.Role != "" {
		if !params.Role.Valid() {
			return model.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, params.Role)
		}
		in.Role = &params.Role
	}

	user, err := s.userStore.Create(ctx, in)
	if err != nil {
		s.logger.Error("Users service: failed to create user",
			"email", in.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Users service: user created",
		"user_id", user.ID,
		"role", user.Role)

	return user, nil
}

// GetUser returns the user or an error wrapping model.ErrNotFound.
func (s *Users) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.FindByID(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if user == nil {
		return model.User{}, fmt.Errorf("user %s: %w", id, model.ErrNotFound)
	}

	return *user, nil
}

func (s *Users) ListUsers(ctx context.Context, page, pageSize int) (model.Page[model.User], error) {
	result, err := s.userStore.FindManyPaginated(ctx, page, pageSize, model.QueryOptions{
		OrderBy:   "created_at",
		Direction: model.SortDesc,
	})
	if err != nil {
		return model.Page[model.User]{}, fmt.Errorf("failed to list users: %w", err)
	}

	return result, nil
}

func (s *Users) SearchUsers(ctx context.Context, term string) ([]model.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrEmptyQuery
	}

	users, err := s.userStore.SearchUsers(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

func (s *Users) UsersByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	users, err := s.userStore.FindByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}

	return users, nil
}

// ReplaceMetadata overwrites the whole metadata document.
func (s *Users) ReplaceMetadata(ctx context.Context, id uuid.UUID, metadata model.Metadata) (model.User, error) {
	user, err := s.userStore.UpdateMetadata(ctx, id, metadata)
	if err != nil {
		s.logger.Error("Users service: failed to update metadata",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update metadata: %w", err)
	}

	return user, nil
}

// MergeMetadata applies patch on top of the stored document. The read and
// the write are separate statements; a concurrent writer may be overwritten.
func (s *Users) MergeMetadata(ctx context.Context, id uuid.UUID, patch model.Metadata) (model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	return s.ReplaceMetadata(ctx, id, user.Metadata.Merge(patch))
}
