// Package mocks provides testify mocks for the auth use cases.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	userDomain "github.com/allisson/vaultkeeper/internal/user/domain"
)

// MockCredentialIssuer is a mock implementation of usecase.CredentialIssuer.
type MockCredentialIssuer struct {
	mock.Mock
}

func (m *MockCredentialIssuer) Authorize(
	ctx context.Context,
	user *userDomain.User,
	creds authDomain.Credentials,
) (*authDomain.IssuedToken, error) {
	args := m.Called(ctx, user, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssuedToken), args.Error(1)
}

func (m *MockCredentialIssuer) Login(
	ctx context.Context,
	creds authDomain.Credentials,
) (*authDomain.IssuedToken, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssuedToken), args.Error(1)
}

func (m *MockCredentialIssuer) Authenticate(ctx context.Context, token string) (*authDomain.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Claims), args.Error(1)
}

func (m *MockCredentialIssuer) JWKS(ctx context.Context) (*authDomain.KeySet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.KeySet), args.Error(1)
}
