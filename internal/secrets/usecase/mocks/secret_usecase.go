// Package mocks provides testify mocks for the secret use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

// MockSecretUseCase is a mock implementation of usecase.SecretUseCase.
type MockSecretUseCase struct {
	mock.Mock
}

func (m *MockSecretUseCase) Create(
	ctx context.Context,
	owner, name string,
	value []byte,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, owner, name, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, secretID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*secretsDomain.Secret), args.Error(1)
}

func (m *MockSecretUseCase) Delete(ctx context.Context, secretID uuid.UUID) error {
	args := m.Called(ctx, secretID)
	return args.Error(0)
}
