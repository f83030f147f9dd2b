package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/daycare-server/internal/model"
)

// Claims represents JWT claims with token type, user ID and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID  `json:"user_id"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
}

// NewJWT creates a new JWT token manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: secretKey, ttl: accessTTL}
}

const (
	accessTTL  = 15 * time.Minute
	typeAccess = "access"
)

// GenerateAccessToken creates a short-lived access token.
func (j *JWT) GenerateAccessToken(userID uuid.UUID, role model.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    userID,
		Role:      role,
		TokenType: typeAccess,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token and returns its principal.
// Every failure wraps model.ErrInvalidToken.
func (j *JWT) ParseAccessToken(tokenString string) (model.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.Principal{}, errors.Join(model.ErrInvalidToken, err)
	}
	if !token.Valid {
		return model.Principal{}, model.ErrInvalidToken
	}
	if claims.TokenType != typeAccess {
		return model.Principal{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrInvalidToken, claims.TokenType)
	}
	if claims.UserID == uuid.Nil || !claims.Role.Valid() {
		return model.Principal{}, fmt.Errorf("%w: missing user or role", model.ErrInvalidToken)
	}

	return model.Principal{UserID: claims.UserID, Role: claims.Role}, nil
}
