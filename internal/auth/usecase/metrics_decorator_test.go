package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	"github.com/allisson/vaultkeeper/internal/auth/usecase"
	usecaseMocks "github.com/allisson/vaultkeeper/internal/auth/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectMetrics(m *mockBusinessMetrics, ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "auth", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "auth", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestCredentialIssuerWithMetrics(t *testing.T) {
	ctx := context.Background()
	creds := authDomain.Credentials{Email: "alice@example.com", Password: "SecurePass1234"}

	t.Run("Login_Success", func(t *testing.T) {
		next := &usecaseMocks.MockCredentialIssuer{}
		metrics := &mockBusinessMetrics{}
		issuer := usecase.NewCredentialIssuerWithMetrics(next, metrics)

		token := &authDomain.IssuedToken{AccessToken: "token"}
		next.On("Login", ctx, creds).Return(token, nil).Once()
		expectMetrics(metrics, ctx, "token_issue", "success")

		got, err := issuer.Login(ctx, creds)
		assert.NoError(t, err)
		assert.Equal(t, token, got)
		metrics.AssertExpectations(t)
	})

	t.Run("Login_Error", func(t *testing.T) {
		next := &usecaseMocks.MockCredentialIssuer{}
		metrics := &mockBusinessMetrics{}
		issuer := usecase.NewCredentialIssuerWithMetrics(next, metrics)

		next.On("Login", ctx, creds).Return(nil, authDomain.ErrInvalidCredentials).Once()
		expectMetrics(metrics, ctx, "token_issue", "error")

		got, err := issuer.Login(ctx, creds)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		assert.Nil(t, got)
		metrics.AssertExpectations(t)
	})

	t.Run("Authorize", func(t *testing.T) {
		next := &usecaseMocks.MockCredentialIssuer{}
		metrics := &mockBusinessMetrics{}
		issuer := usecase.NewCredentialIssuerWithMetrics(next, metrics)

		next.On("Authorize", ctx, mock.Anything, creds).Return(nil, authDomain.ErrInvalidCredentials).Once()
		expectMetrics(metrics, ctx, "token_authorize", "error")

		_, err := issuer.Authorize(ctx, nil, creds)
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		metrics.AssertExpectations(t)
	})

	t.Run("Authenticate", func(t *testing.T) {
		next := &usecaseMocks.MockCredentialIssuer{}
		metrics := &mockBusinessMetrics{}
		issuer := usecase.NewCredentialIssuerWithMetrics(next, metrics)

		claims := &authDomain.Claims{Subject: "alice@example.com"}
		next.On("Authenticate", ctx, "token").Return(claims, nil).Once()
		expectMetrics(metrics, ctx, "token_authenticate", "success")

		got, err := issuer.Authenticate(ctx, "token")
		assert.NoError(t, err)
		assert.Equal(t, claims, got)
		metrics.AssertExpectations(t)
	})

	t.Run("JWKS", func(t *testing.T) {
		next := &usecaseMocks.MockCredentialIssuer{}
		metrics := &mockBusinessMetrics{}
		issuer := usecase.NewCredentialIssuerWithMetrics(next, metrics)

		keySet := &authDomain.KeySet{}
		next.On("JWKS", ctx).Return(keySet, nil).Once()
		expectMetrics(metrics, ctx, "jwks_get", "success")

		got, err := issuer.JWKS(ctx)
		assert.NoError(t, err)
		assert.Equal(t, keySet, got)
		metrics.AssertExpectations(t)
	})
}
