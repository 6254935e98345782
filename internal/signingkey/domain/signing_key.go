// Package domain defines the signing key models used to sign and verify access tokens.
package domain

import (
	"crypto/ed25519"
	"time"

	"github.com/google/uuid"
)

// Algorithm is the JWS algorithm every signing key is used with.
const Algorithm = "EdDSA"

// SigningKey is the persisted form of a signing key pair. The private half is
// sealed with the secret cipher (nonce || ciphertext) and never stored in clear.
// Active marks the single key new tokens are signed with; superseded keys keep
// Active false and are only used to verify tokens they already signed.
type SigningKey struct {
	ID                   uuid.UUID
	PublicKey            []byte
	PrivateKeyCiphertext []byte
	Active               bool
	CreatedAt            time.Time
}

// IsFresh reports whether the key is younger than window at now.
func (k *SigningKey) IsFresh(now time.Time, window time.Duration) bool {
	return now.Sub(k.CreatedAt) < window
}

// KeyMaterial is an opened signing key pair. The ID doubles as the JWT kid header.
type KeyMaterial struct {
	ID         uuid.UUID
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
	CreatedAt  time.Time
}

// PublicKey is the verification half of a signing key, safe to publish.
type PublicKey struct {
	ID        uuid.UUID
	Key       ed25519.PublicKey
	Active    bool
	CreatedAt time.Time
}
