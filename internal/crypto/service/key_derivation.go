package service

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
)

// DeriveKey derives the 32-byte secret encryption key from the operator passphrase
// with PBKDF2-HMAC-SHA256. The same passphrase and salt always produce the same key,
// so the salt must be kept for as long as any value sealed under it.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	return deriveKey(passphrase, salt, cryptoDomain.PBKDF2Iterations)
}

func deriveKey(passphrase, salt []byte, iterations int) ([]byte, error) {
	if len(passphrase) == 0 || len(salt) == 0 {
		return nil, cryptoDomain.ErrMalformedInput
	}
	return pbkdf2.Key(passphrase, salt, iterations, cryptoDomain.KeySize, sha256.New), nil
}
