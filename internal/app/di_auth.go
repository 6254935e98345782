package app

import (
	"context"

	authHTTP "github.com/allisson/vaultkeeper/internal/auth/http"
	authService "github.com/allisson/vaultkeeper/internal/auth/service"
	authUseCase "github.com/allisson/vaultkeeper/internal/auth/usecase"
)

type authComponents struct {
	credentialIssuer lazy[authUseCase.CredentialIssuer]
	tokenHandler     lazy[*authHTTP.TokenHandler]
}

// CredentialIssuer returns the token issuer wrapped with metrics.
func (c *Container) CredentialIssuer(ctx context.Context) (authUseCase.CredentialIssuer, error) {
	return c.credentialIssuer.get(func() (authUseCase.CredentialIssuer, error) {
		users, err := c.UserUseCase()
		if err != nil {
			return nil, err
		}
		hasher, err := c.PasswordHasher()
		if err != nil {
			return nil, err
		}
		keys, err := c.KeyLifecycleUseCase(ctx)
		if err != nil {
			return nil, err
		}
		bizMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		issuer := authUseCase.NewCredentialIssuer(
			authUseCase.Config{
				Issuer:   c.config.AuthIssuer,
				Audience: c.config.AuthAudience,
				TokenTTL: c.config.AuthTokenTTL,
			},
			users,
			hasher,
			keys,
			authService.NewNonceService([]byte(c.config.AuthSecret)),
			authService.NewTokenService(),
		)
		return authUseCase.NewCredentialIssuerWithMetrics(issuer, bizMetrics), nil
	})
}

// TokenHandler returns the HTTP handler for token issuance and JWKS.
func (c *Container) TokenHandler(ctx context.Context) (*authHTTP.TokenHandler, error) {
	return c.tokenHandler.get(func() (*authHTTP.TokenHandler, error) {
		issuer, err := c.CredentialIssuer(ctx)
		if err != nil {
			return nil, err
		}
		return authHTTP.NewTokenHandler(issuer, c.Logger()), nil
	})
}
