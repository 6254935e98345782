// Package usecase implements the signing key lifecycle: resolving the active key,
// rotating it once it outlives the rotation window and publishing verification keys.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

// SigningKeyRepository defines the interface for signing key persistence.
type SigningKeyRepository interface {
	GetActive(ctx context.Context) (*signingKeyDomain.SigningKey, error)
	Get(ctx context.Context, keyID uuid.UUID) (*signingKeyDomain.SigningKey, error)
	ListSince(ctx context.Context, since time.Time) ([]*signingKeyDomain.SigningKey, error)
	// SwapActive atomically retires an active key created at or before cutoff and
	// inserts candidate as active. It reports false when another active key remains.
	SwapActive(ctx context.Context, candidate *signingKeyDomain.SigningKey, cutoff time.Time) (bool, error)
}

// KeyLifecycleUseCase defines the signing key business logic.
type KeyLifecycleUseCase interface {
	// GetOrCreateActive returns the active key pair, generating and promoting a new
	// one when none exists or the current one is older than the rotation window.
	//
	// Security Note: the returned KeyMaterial holds the private key in clear.
	GetOrCreateActive(ctx context.Context) (*signingKeyDomain.KeyMaterial, error)
	Get(ctx context.Context, keyID uuid.UUID) (*signingKeyDomain.PublicKey, error)
	ListPublic(ctx context.Context) ([]*signingKeyDomain.PublicKey, error)
}
