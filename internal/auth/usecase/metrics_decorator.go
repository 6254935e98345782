package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	"github.com/allisson/vaultkeeper/internal/metrics"
	userDomain "github.com/allisson/vaultkeeper/internal/user/domain"
)

// credentialIssuerWithMetrics decorates CredentialIssuer with metrics instrumentation.
type credentialIssuerWithMetrics struct {
	next    CredentialIssuer
	metrics metrics.BusinessMetrics
}

// NewCredentialIssuerWithMetrics wraps a CredentialIssuer with metrics recording.
func NewCredentialIssuerWithMetrics(issuer CredentialIssuer, m metrics.BusinessMetrics) CredentialIssuer {
	return &credentialIssuerWithMetrics{
		next:    issuer,
		metrics: m,
	}
}

func (c *credentialIssuerWithMetrics) Authorize(
	ctx context.Context,
	user *userDomain.User,
	creds authDomain.Credentials,
) (*authDomain.IssuedToken, error) {
	start := time.Now()
	token, err := c.next.Authorize(ctx, user, creds)
	c.record(ctx, "token_authorize", start, err)
	return token, err
}

func (c *credentialIssuerWithMetrics) Login(
	ctx context.Context,
	creds authDomain.Credentials,
) (*authDomain.IssuedToken, error) {
	start := time.Now()
	token, err := c.next.Login(ctx, creds)
	c.record(ctx, "token_issue", start, err)
	return token, err
}

func (c *credentialIssuerWithMetrics) Authenticate(ctx context.Context, token string) (*authDomain.Claims, error) {
	start := time.Now()
	claims, err := c.next.Authenticate(ctx, token)
	c.record(ctx, "token_authenticate", start, err)
	return claims, err
}

func (c *credentialIssuerWithMetrics) JWKS(ctx context.Context) (*authDomain.KeySet, error) {
	start := time.Now()
	keySet, err := c.next.JWKS(ctx)
	c.record(ctx, "jwks_get", start, err)
	return keySet, err
}

func (c *credentialIssuerWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	c.metrics.RecordOperation(ctx, "auth", operation, status)
	c.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
