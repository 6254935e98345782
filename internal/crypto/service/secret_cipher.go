package service

import (
	"bytes"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
)

// SecretCipher implements Cipher. Only the passphrase and salt are held; the
// derived key lives for the duration of a single Seal or Open call.
type SecretCipher struct {
	passphrase []byte
	salt       []byte
}

// NewSecretCipher creates a SecretCipher. Both inputs are copied and must be non-empty.
func NewSecretCipher(passphrase, salt []byte) (*SecretCipher, error) {
	if len(passphrase) == 0 || len(salt) == 0 {
		return nil, cryptoDomain.ErrMalformedInput
	}
	return &SecretCipher{
		passphrase: bytes.Clone(passphrase),
		salt:       bytes.Clone(salt),
	}, nil
}

// Seal encrypts plaintext and returns nonce || ciphertext || tag.
func (s *SecretCipher) Seal(plaintext []byte) ([]byte, error) {
	key, err := DeriveKey(s.passphrase, s.salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return Encrypt(key, plaintext)
}

// Open decrypts a blob produced by Seal.
func (s *SecretCipher) Open(blob []byte) ([]byte, error) {
	key, err := DeriveKey(s.passphrase, s.salt)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return Decrypt(key, blob)
}

// Close wipes the passphrase held in memory.
func (s *SecretCipher) Close() {
	cryptoDomain.Zero(s.passphrase)
}
