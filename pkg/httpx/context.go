package httpx

import (
	"context"

	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
)

type ctxKey string

const (
	ctxKeyPrincipal ctxKey = "principal"
	ctxKeyClaims    ctxKey = "claims"
)

// Principal is the caller of an authenticated request.
type Principal struct {
	UserID     string
	BusinessID string
	RoleID     string
	Username   string
}

// WithPrincipal stores p and its claims on ctx. Tests use it to skip token
// verification.
func WithPrincipal(ctx context.Context, p Principal, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyPrincipal, p)
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// PrincipalFromContext returns the caller set by AuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok && p.UserID != ""
}

// ClaimsFromContext returns the verified access-token claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}
