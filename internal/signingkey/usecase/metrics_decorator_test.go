package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
	"github.com/allisson/vaultkeeper/internal/signingkey/usecase"
	usecaseMocks "github.com/allisson/vaultkeeper/internal/signingkey/usecase/mocks"
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
	m.On("RecordOperation", ctx, "signingkey", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "signingkey", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestKeyLifecycleUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("GetOrCreateActive_Success", func(t *testing.T) {
		next := &usecaseMocks.MockKeyLifecycleUseCase{}
		metrics := &mockBusinessMetrics{}
		uc := usecase.NewKeyLifecycleUseCaseWithMetrics(next, metrics)

		material := &signingKeyDomain.KeyMaterial{ID: uuid.Must(uuid.NewV7())}
		next.On("GetOrCreateActive", ctx).Return(material, nil).Once()
		expectMetrics(metrics, ctx, "signing_key_get_or_create", "success")

		got, err := uc.GetOrCreateActive(ctx)
		assert.NoError(t, err)
		assert.Equal(t, material, got)
		next.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("GetOrCreateActive_Error", func(t *testing.T) {
		next := &usecaseMocks.MockKeyLifecycleUseCase{}
		metrics := &mockBusinessMetrics{}
		uc := usecase.NewKeyLifecycleUseCaseWithMetrics(next, metrics)

		next.On("GetOrCreateActive", ctx).Return(nil, signingKeyDomain.ErrStoreUnavailable).Once()
		expectMetrics(metrics, ctx, "signing_key_get_or_create", "error")

		got, err := uc.GetOrCreateActive(ctx)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, signingKeyDomain.ErrStoreUnavailable)
		metrics.AssertExpectations(t)
	})

	t.Run("Get_Error", func(t *testing.T) {
		next := &usecaseMocks.MockKeyLifecycleUseCase{}
		metrics := &mockBusinessMetrics{}
		uc := usecase.NewKeyLifecycleUseCaseWithMetrics(next, metrics)

		keyID := uuid.Must(uuid.NewV7())
		next.On("Get", ctx, keyID).Return(nil, signingKeyDomain.ErrSigningKeyNotFound).Once()
		expectMetrics(metrics, ctx, "signing_key_get", "error")

		_, err := uc.Get(ctx, keyID)
		assert.ErrorIs(t, err, signingKeyDomain.ErrSigningKeyNotFound)
		metrics.AssertExpectations(t)
	})

	t.Run("ListPublic_Success", func(t *testing.T) {
		next := &usecaseMocks.MockKeyLifecycleUseCase{}
		metrics := &mockBusinessMetrics{}
		uc := usecase.NewKeyLifecycleUseCaseWithMetrics(next, metrics)

		keys := []*signingKeyDomain.PublicKey{{ID: uuid.Must(uuid.NewV7())}}
		next.On("ListPublic", ctx).Return(keys, nil).Once()
		expectMetrics(metrics, ctx, "signing_key_list_public", "success")

		got, err := uc.ListPublic(ctx)
		assert.NoError(t, err)
		assert.Equal(t, keys, got)
		metrics.AssertExpectations(t)
	})

	t.Run("ListPublic_Error", func(t *testing.T) {
		next := &usecaseMocks.MockKeyLifecycleUseCase{}
		metrics := &mockBusinessMetrics{}
		uc := usecase.NewKeyLifecycleUseCaseWithMetrics(next, metrics)

		next.On("ListPublic", ctx).Return(nil, errors.New("boom")).Once()
		expectMetrics(metrics, ctx, "signing_key_list_public", "error")

		_, err := uc.ListPublic(ctx)
		assert.Error(t, err)
		metrics.AssertExpectations(t)
	})
}
