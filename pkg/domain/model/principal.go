package model

import "context"

// Principal is the authenticated caller of the backend
type Principal struct {
	Subject string
	Name    string
}

type ctxPrincipalKey struct{}

// ContextWithPrincipal embeds p into ctx
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey{}, p)
}

// PrincipalFromContext returns the principal embedded in ctx, or nil
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxPrincipalKey{}).(*Principal)
	return p
}
