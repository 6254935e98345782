// Package service provides password hashing for user accounts.
package service

import (
	"sync"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/vaultkeeper/internal/errors"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. An empty or malformed hash never matches.
	Verify(plain, hash string) bool
}

// pwdHasher implements PasswordHasher using Argon2id.
type pwdHasher struct {
	hasher *pwdhash.PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// Hash hashes plain using Argon2id and returns a PHC string.
func (p *pwdHasher) Hash(plain string) (string, error) {
	hash, err := p.hasher.Hash([]byte(plain))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Verify compares plain against hash. When hash is empty (unknown user) it still
// runs a full verification against a throwaway hash so both paths cost the same.
func (p *pwdHasher) Verify(plain, hash string) bool {
	if hash == "" {
		p.dummyOnce.Do(func() {
			p.dummyHash, _ = p.hasher.Hash([]byte("vaultkeeper-dummy-password"))
		})
		_, _ = p.hasher.Verify([]byte(plain), p.dummyHash)
		return false
	}

	ok, err := p.hasher.Verify([]byte(plain), hash)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordHasher creates a PasswordHasher with the interactive policy, suited
// to passwords verified on every login.
func NewPasswordHasher() (PasswordHasher, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &pwdHasher{hasher: hasher}, nil
}
