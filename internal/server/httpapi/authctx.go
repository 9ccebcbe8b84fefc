package httpapi

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/notekeeper/internal/authz"
)

type ctxKey string

const (
	principalKey ctxKey = "nk.principal"
	claimsKey    ctxKey = "nk.claims"
	requestIDKey ctxKey = "nk.requestID"
)

// WithPrincipal stores the authenticated principal and its token claims in ctx.
func WithPrincipal(ctx context.Context, p authz.Principal, claims jwt.RegisteredClaims) context.Context {
	ctx = context.WithValue(ctx, principalKey, p)
	return context.WithValue(ctx, claimsKey, claims)
}

// PrincipalFromCtx returns the acting principal; the zero Principal when anonymous.
func PrincipalFromCtx(ctx context.Context) (authz.Principal, bool) {
	p, ok := ctx.Value(principalKey).(authz.Principal)
	return p, ok
}

// ClaimsFromCtx returns the claims of the token the request was authenticated with.
func ClaimsFromCtx(ctx context.Context) (jwt.RegisteredClaims, bool) {
	c, ok := ctx.Value(claimsKey).(jwt.RegisteredClaims)
	return c, ok
}

// RequestIDFromCtx returns the id assigned by the RequestID middleware.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
