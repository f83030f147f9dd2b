package context

import (
	"context"

	"github.com/dtroode/daycare-server/internal/model"
)

type principalKey struct{}

// Manager stores the authenticated principal in a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext returns a copy of ctx carrying p.
func (m *Manager) SetPrincipalToContext(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipalFromContext returns the principal set by SetPrincipalToContext.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok
}
