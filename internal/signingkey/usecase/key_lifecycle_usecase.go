package usecase

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
	"github.com/allisson/vaultkeeper/internal/database"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
	signingKeyService "github.com/allisson/vaultkeeper/internal/signingkey/service"
)

// Option configures the key lifecycle use case.
type Option func(*keyLifecycleUseCase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(uc *keyLifecycleUseCase) {
		uc.now = now
	}
}

type keyLifecycleUseCase struct {
	txManager      database.TxManager
	repo           SigningKeyRepository
	cipher         cryptoService.Cipher
	generator      signingKeyService.KeyGenerator
	rotationWindow time.Duration
	now            func() time.Time
}

// GetOrCreateActive never guards the active marker with a process lock; concurrent
// callers each propose a candidate and SwapActive lets exactly one through.
func (k *keyLifecycleUseCase) GetOrCreateActive(ctx context.Context) (*signingKeyDomain.KeyMaterial, error) {
	now := k.now().UTC()

	active, err := k.repo.GetActive(ctx)
	switch {
	case err == nil:
		if active.IsFresh(now, k.rotationWindow) {
			return k.open(active)
		}
	case errors.Is(err, signingKeyDomain.ErrSigningKeyNotFound):
	default:
		return nil, storeUnavailable(err)
	}

	material, err := k.generator.Generate(now)
	if err != nil {
		return nil, err
	}

	sealed, err := k.cipher.Seal(material.PrivateKey)
	if err != nil {
		cryptoDomain.Zero(material.PrivateKey)
		return nil, apperrors.Join(signingKeyDomain.ErrKeyGenerationFailed, err)
	}

	candidate := &signingKeyDomain.SigningKey{
		ID:                   material.ID,
		PublicKey:            bytes.Clone(material.PublicKey),
		PrivateKeyCiphertext: sealed,
		CreatedAt:            material.CreatedAt,
	}

	var won bool
	err = k.txManager.WithTx(ctx, func(ctx context.Context) error {
		var swapErr error
		won, swapErr = k.repo.SwapActive(ctx, candidate, now.Add(-k.rotationWindow))
		return swapErr
	})
	if err != nil {
		cryptoDomain.Zero(material.PrivateKey)
		return nil, storeUnavailable(err)
	}

	if won {
		return material, nil
	}

	// Lost the race; the winner is already persisted.
	cryptoDomain.Zero(material.PrivateKey)

	winner, err := k.repo.GetActive(ctx)
	if err != nil {
		return nil, storeUnavailable(err)
	}
	return k.open(winner)
}

func (k *keyLifecycleUseCase) Get(ctx context.Context, keyID uuid.UUID) (*signingKeyDomain.PublicKey, error) {
	key, err := k.repo.Get(ctx, keyID)
	if err != nil {
		if errors.Is(err, signingKeyDomain.ErrSigningKeyNotFound) {
			return nil, err
		}
		return nil, storeUnavailable(err)
	}
	return toPublicKey(key)
}

// ListPublic returns the active key plus keys created within two rotation windows,
// enough to verify every token that has not expired yet.
func (k *keyLifecycleUseCase) ListPublic(ctx context.Context) ([]*signingKeyDomain.PublicKey, error) {
	since := k.now().UTC().Add(-2 * k.rotationWindow)

	keys, err := k.repo.ListSince(ctx, since)
	if err != nil {
		return nil, storeUnavailable(err)
	}

	publicKeys := make([]*signingKeyDomain.PublicKey, 0, len(keys))
	for _, key := range keys {
		publicKey, err := toPublicKey(key)
		if err != nil {
			return nil, err
		}
		publicKeys = append(publicKeys, publicKey)
	}
	return publicKeys, nil
}

func (k *keyLifecycleUseCase) open(key *signingKeyDomain.SigningKey) (*signingKeyDomain.KeyMaterial, error) {
	plaintext, err := k.cipher.Open(key.PrivateKeyCiphertext)
	if err != nil {
		return nil, apperrors.Wrapf(signingKeyDomain.ErrInvalidKeyMaterial, "failed to open signing key %s: %v", key.ID, err)
	}

	if len(plaintext) != ed25519.PrivateKeySize || len(key.PublicKey) != ed25519.PublicKeySize {
		cryptoDomain.Zero(plaintext)
		return nil, signingKeyDomain.ErrInvalidKeyMaterial
	}

	privateKey := ed25519.PrivateKey(plaintext)
	publicKey := ed25519.PublicKey(bytes.Clone(key.PublicKey))
	if !publicKey.Equal(privateKey.Public()) {
		cryptoDomain.Zero(plaintext)
		return nil, signingKeyDomain.ErrInvalidKeyMaterial
	}

	return &signingKeyDomain.KeyMaterial{
		ID:         key.ID,
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		CreatedAt:  key.CreatedAt,
	}, nil
}

func toPublicKey(key *signingKeyDomain.SigningKey) (*signingKeyDomain.PublicKey, error) {
	if len(key.PublicKey) != ed25519.PublicKeySize {
		return nil, signingKeyDomain.ErrInvalidKeyMaterial
	}
	return &signingKeyDomain.PublicKey{
		ID:        key.ID,
		Key:       ed25519.PublicKey(bytes.Clone(key.PublicKey)),
		Active:    key.Active,
		CreatedAt: key.CreatedAt,
	}, nil
}

func storeUnavailable(err error) error {
	return apperrors.Join(signingKeyDomain.ErrStoreUnavailable, err)
}

// NewKeyLifecycleUseCase creates a new KeyLifecycleUseCase.
func NewKeyLifecycleUseCase(
	txManager database.TxManager,
	repo SigningKeyRepository,
	cipher cryptoService.Cipher,
	generator signingKeyService.KeyGenerator,
	rotationWindow time.Duration,
	opts ...Option,
) KeyLifecycleUseCase {
	uc := &keyLifecycleUseCase{
		txManager:      txManager,
		repo:           repo,
		cipher:         cipher,
		generator:      generator,
		rotationWindow: rotationWindow,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
