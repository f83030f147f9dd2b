package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dtroode/daycare-server/internal/logger"
	"github.com/dtroode/daycare-server/internal/model"
)

// Tokens issues admin API access tokens for stored users.
type Tokens struct {
	userStore    model.UserStore
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewTokens(userStore model.UserStore, tokenManager model.TokenManager, logger *logger.Logger) *Tokens {
	return &Tokens{
		userStore:    userStore,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// IssueToken signs an access token carrying the role of the user with the
// given email.
func (s *Tokens) IssueToken(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmptyEmail
	}

	user, err := s.userStore.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Tokens service: failed to find user", "email", email, "error", err.Error())
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return "", fmt.Errorf("user %s: %w", email, model.ErrNotFound)
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("Tokens service: failed to sign token", "user_id", user.ID, "error", err.Error())
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Info("Tokens service: token issued", "user_id", user.ID, "role", user.Role)
	return token, nil
}
