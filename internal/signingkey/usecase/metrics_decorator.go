package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultkeeper/internal/metrics"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

// keyLifecycleUseCaseWithMetrics decorates KeyLifecycleUseCase with metrics instrumentation.
type keyLifecycleUseCaseWithMetrics struct {
	next    KeyLifecycleUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyLifecycleUseCaseWithMetrics wraps a KeyLifecycleUseCase with metrics recording.
func NewKeyLifecycleUseCaseWithMetrics(useCase KeyLifecycleUseCase, m metrics.BusinessMetrics) KeyLifecycleUseCase {
	return &keyLifecycleUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (k *keyLifecycleUseCaseWithMetrics) GetOrCreateActive(
	ctx context.Context,
) (*signingKeyDomain.KeyMaterial, error) {
	start := time.Now()
	material, err := k.next.GetOrCreateActive(ctx)
	k.record(ctx, "signing_key_get_or_create", start, err)
	return material, err
}

func (k *keyLifecycleUseCaseWithMetrics) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*signingKeyDomain.PublicKey, error) {
	start := time.Now()
	publicKey, err := k.next.Get(ctx, keyID)
	k.record(ctx, "signing_key_get", start, err)
	return publicKey, err
}

func (k *keyLifecycleUseCaseWithMetrics) ListPublic(ctx context.Context) ([]*signingKeyDomain.PublicKey, error) {
	start := time.Now()
	publicKeys, err := k.next.ListPublic(ctx)
	k.record(ctx, "signing_key_list_public", start, err)
	return publicKeys, err
}

func (k *keyLifecycleUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	k.metrics.RecordOperation(ctx, "signingkey", operation, status)
	k.metrics.RecordDuration(ctx, "signingkey", operation, time.Since(start), status)
}
