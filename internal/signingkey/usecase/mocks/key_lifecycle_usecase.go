// Package mocks provides mock implementations of the signing key use case.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

// MockKeyLifecycleUseCase is a mock implementation of KeyLifecycleUseCase for testing.
type MockKeyLifecycleUseCase struct {
	mock.Mock
}

// GetOrCreateActive mocks the GetOrCreateActive method of KeyLifecycleUseCase.
func (m *MockKeyLifecycleUseCase) GetOrCreateActive(ctx context.Context) (*signingKeyDomain.KeyMaterial, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingKeyDomain.KeyMaterial), args.Error(1)
}

// Get mocks the Get method of KeyLifecycleUseCase.
func (m *MockKeyLifecycleUseCase) Get(ctx context.Context, keyID uuid.UUID) (*signingKeyDomain.PublicKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingKeyDomain.PublicKey), args.Error(1)
}

// ListPublic mocks the ListPublic method of KeyLifecycleUseCase.
func (m *MockKeyLifecycleUseCase) ListPublic(ctx context.Context) ([]*signingKeyDomain.PublicKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signingKeyDomain.PublicKey), args.Error(1)
}
