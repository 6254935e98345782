// Package usecase implements the credential issuer: password verification,
// signing key resolution, claim construction and token signing.
package usecase

import (
	"context"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	userDomain "github.com/allisson/vaultkeeper/internal/user/domain"
)

// UserLookup finds users by email.
type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*userDomain.User, error)
}

// CredentialIssuer issues and validates access tokens.
type CredentialIssuer interface {
	// Authorize verifies creds against user and returns a signed token.
	// A nil user and a wrong password both yield ErrInvalidCredentials.
	Authorize(ctx context.Context, user *userDomain.User, creds authDomain.Credentials) (*authDomain.IssuedToken, error)

	// Login looks the user up by email and authorizes it.
	Login(ctx context.Context, creds authDomain.Credentials) (*authDomain.IssuedToken, error)

	// Authenticate validates a bearer token and returns its claims.
	Authenticate(ctx context.Context, token string) (*authDomain.Claims, error)

	// JWKS returns the public keys that may have signed a live token.
	JWKS(ctx context.Context) (*authDomain.KeySet, error)
}
