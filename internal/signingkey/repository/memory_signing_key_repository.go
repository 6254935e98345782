package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

// MemorySigningKeyRepository keeps signing keys in process memory with the same
// single-active-key semantics as the database repositories.
type MemorySigningKeyRepository struct {
	mu     sync.Mutex
	keys   map[uuid.UUID]signingKeyDomain.SigningKey
	active uuid.UUID
}

// GetActive returns the key currently carrying the active marker.
func (r *MemorySigningKeyRepository) GetActive(ctx context.Context) (*signingKeyDomain.SigningKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active == uuid.Nil {
		return nil, signingKeyDomain.ErrSigningKeyNotFound
	}
	return r.copyLocked(r.active), nil
}

// Get returns the key with the given id.
func (r *MemorySigningKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*signingKeyDomain.SigningKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.keys[keyID]; !ok {
		return nil, signingKeyDomain.ErrSigningKeyNotFound
	}
	return r.copyLocked(keyID), nil
}

// ListSince returns the active key and every key created at or after since, newest first.
func (r *MemorySigningKeyRepository) ListSince(
	ctx context.Context,
	since time.Time,
) ([]*signingKeyDomain.SigningKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]*signingKeyDomain.SigningKey, 0, len(r.keys))
	for id, key := range r.keys {
		if id == r.active || !key.CreatedAt.Before(since) {
			keys = append(keys, r.copyLocked(id))
		}
	}
	slices.SortFunc(keys, func(a, b *signingKeyDomain.SigningKey) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return keys, nil
}

// SwapActive mirrors the conditional write of the database repositories.
func (r *MemorySigningKeyRepository) SwapActive(
	ctx context.Context,
	candidate *signingKeyDomain.SigningKey,
	cutoff time.Time,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != uuid.Nil && !r.keys[r.active].CreatedAt.After(cutoff) {
		retired := r.keys[r.active]
		retired.Active = false
		r.keys[r.active] = retired
		r.active = uuid.Nil
	}

	if r.active != uuid.Nil {
		return false, nil
	}

	stored := *candidate
	stored.Active = true
	r.keys[stored.ID] = stored
	r.active = stored.ID
	candidate.Active = true
	return true, nil
}

// Len returns the number of stored keys.
func (r *MemorySigningKeyRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

func (r *MemorySigningKeyRepository) copyLocked(id uuid.UUID) *signingKeyDomain.SigningKey {
	key := r.keys[id]
	key.PublicKey = slices.Clone(key.PublicKey)
	key.PrivateKeyCiphertext = slices.Clone(key.PrivateKeyCiphertext)
	return &key
}

// NewMemorySigningKeyRepository creates an empty in-memory signing key repository.
func NewMemorySigningKeyRepository() *MemorySigningKeyRepository {
	return &MemorySigningKeyRepository{keys: make(map[uuid.UUID]signingKeyDomain.SigningKey)}
}
