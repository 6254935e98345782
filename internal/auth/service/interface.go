// Package service provides the cryptographic pieces of token issuance: the
// deployment-bound nonce and EdDSA JWT signing and parsing.
package service

import (
	"crypto/ed25519"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
)

// NonceService derives and checks the per-subject nonce.
type NonceService interface {
	Compute(subject string) string
	Verify(subject, nonce string) bool
}

// PublicKeyResolver returns the public key a token's kid header refers to.
type PublicKeyResolver func(keyID uuid.UUID) (ed25519.PublicKey, error)

// ParseOptions are the claim requirements enforced when parsing a token.
type ParseOptions struct {
	Issuer   string
	Audience []string
	Now      func() time.Time
}

// TokenService signs and parses EdDSA JWTs.
type TokenService interface {
	Sign(claims authDomain.Claims, privateKey ed25519.PrivateKey) (string, error)
	Parse(token string, resolve PublicKeyResolver, opts ParseOptions) (*authDomain.Claims, error)
}
