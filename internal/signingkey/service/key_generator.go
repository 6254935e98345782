// Package service provides signing key generation.
package service

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

// KeyGenerator creates fresh signing key pairs.
type KeyGenerator interface {
	Generate(now time.Time) (*signingKeyDomain.KeyMaterial, error)
}

// Ed25519KeyGenerator generates Ed25519 key pairs from an entropy source.
type Ed25519KeyGenerator struct {
	random io.Reader
}

// NewEd25519KeyGenerator uses crypto/rand when random is nil.
func NewEd25519KeyGenerator(random io.Reader) *Ed25519KeyGenerator {
	if random == nil {
		random = rand.Reader
	}
	return &Ed25519KeyGenerator{random: random}
}

// Generate returns a new key pair identified by a UUIDv7. Entropy failures
// surface as ErrKeyGenerationFailed.
func (g *Ed25519KeyGenerator) Generate(now time.Time) (*signingKeyDomain.KeyMaterial, error) {
	seed := make([]byte, ed25519.SeedSize)
	defer cryptoDomain.Zero(seed)

	if _, err := io.ReadFull(g.random, seed); err != nil {
		return nil, apperrors.Join(signingKeyDomain.ErrKeyGenerationFailed, err)
	}
	privateKey := ed25519.NewKeyFromSeed(seed)

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Join(signingKeyDomain.ErrKeyGenerationFailed, err)
	}

	return &signingKeyDomain.KeyMaterial{
		ID:         id,
		PublicKey:  privateKey.Public().(ed25519.PublicKey),
		PrivateKey: privateKey,
		CreatedAt:  now.UTC(),
	}, nil
}
