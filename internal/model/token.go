package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// claim checks.
var ErrInvalidToken = errors.New("invalid access token")

// Principal is the authenticated caller carried by an access token.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, role Role) (string, error)
	ParseAccessToken(token string) (Principal, error)
}
