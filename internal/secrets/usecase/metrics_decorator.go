package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultkeeper/internal/metrics"
	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for secret creation.
func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	owner, name string,
	value []byte,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, owner, name, value)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

// Get records metrics for secret retrieval.
func (s *secretUseCaseWithMetrics) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Get(ctx, secretID)
	s.record(ctx, "secret_get", start, err)
	return secret, err
}

// List records metrics for paginated listing.
func (s *secretUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx, offset, limit)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

// ListByOwner records metrics for per-owner listing.
func (s *secretUseCaseWithMetrics) ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.ListByOwner(ctx, owner)
	s.record(ctx, "secret_list_by_owner", start, err)
	return secrets, err
}

// Delete records metrics for secret deletion.
func (s *secretUseCaseWithMetrics) Delete(ctx context.Context, secretID uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, secretID)
	s.record(ctx, "secret_delete", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}
