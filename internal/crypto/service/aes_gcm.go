package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
)

// AESGCMCipher implements AEAD using AES-256-GCM.
//
// A fresh 12-byte nonce is drawn from crypto/rand on every Encrypt call, so the
// same key can seal many values. The 16-byte tag is appended to the ciphertext.
// The cipher is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead   cipher.AEAD
	random io.Reader
}

// NewAESGCM creates a new AES-256-GCM cipher. The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead, random: rand.Reader}, nil
}

// Encrypt encrypts plaintext with optional AAD under a freshly generated nonce.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error) {
	nonce = make([]byte, a.aead.NonceSize())
	if _, err := io.ReadFull(a.random, nonce); err != nil {
		return nil, nil, apperrors.Join(cryptoDomain.ErrEncryptionFailed, err)
	}

	ciphertext = a.aead.Seal(nil, nonce, plaintext, aad)
	return ciphertext, nonce, nil
}

// Decrypt verifies the tag and decrypts ciphertext. Any failure, including a
// wrong key, returns ErrDecryptionFailed and no plaintext.
func (a *AESGCMCipher) Decrypt(ciphertext, nonce, aad []byte) ([]byte, error) {
	if len(nonce) != a.aead.NonceSize() {
		return nil, cryptoDomain.ErrMalformedInput
	}

	plaintext, err := a.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Encrypt seals plaintext under a 32-byte key and returns nonce || ciphertext || tag.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	c, err := NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	return c.seal(plaintext)
}

// Decrypt opens a blob produced by Encrypt. The key length is checked before the blob,
// and a blob shorter than the nonce fails before any cryptographic work.
func Decrypt(key, blob []byte) ([]byte, error) {
	c, err := NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	return c.open(blob)
}

func (a *AESGCMCipher) seal(plaintext []byte) ([]byte, error) {
	ciphertext, nonce, err := a.Encrypt(plaintext, nil)
	if err != nil {
		return nil, err
	}

	blob := make([]byte, 0, len(nonce)+len(ciphertext))
	blob = append(blob, nonce...)
	return append(blob, ciphertext...), nil
}

func (a *AESGCMCipher) open(blob []byte) ([]byte, error) {
	if len(blob) < cryptoDomain.NonceSize {
		return nil, cryptoDomain.ErrMalformedInput
	}
	return a.Decrypt(blob[cryptoDomain.NonceSize:], blob[:cryptoDomain.NonceSize], nil)
}
