package model

import "context"

type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, p Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
