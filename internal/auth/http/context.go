// Package http provides the token endpoints and the bearer authentication middleware.
package http

import (
	"context"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
)

// claimsKey is a context key type for storing validated token claims.
type claimsKey struct{}

// WithClaims stores validated token claims in the context.
func WithClaims(ctx context.Context, claims *authDomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves the claims stored by AuthenticationMiddleware.
func GetClaims(ctx context.Context) (*authDomain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authDomain.Claims)
	return claims, ok && claims != nil
}
