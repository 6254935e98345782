// Package usecase implements secret storage: values are sealed with the
// passphrase-derived cipher before they reach a repository and opened on read.
package usecase

import (
	"context"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error)
	ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error)
	Delete(ctx context.Context, secretID uuid.UUID) error
}

// SecretUseCase defines the interface for secret management business logic.
type SecretUseCase interface {
	Create(ctx context.Context, owner, name string, value []byte) (*secretsDomain.Secret, error)
	// Get retrieves and decrypts a secret.
	//
	// The returned Secret carries plaintext. Callers MUST zero it after use
	// with cryptoDomain.Zero(secret.Plaintext).
	Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	// List returns secret metadata without ciphertext or plaintext.
	List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error)
	ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error)
	Delete(ctx context.Context, secretID uuid.UUID) error
}
