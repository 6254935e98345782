// Package service implements the secret cipher: PBKDF2 passphrase derivation,
// AES-256-GCM sealing into nonce-prefixed blobs, a local vault file and KMS
// unwrapping of the operator passphrase.
package service

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Cipher seals and opens values under the configured operator passphrase.
// Sealed values use the nonce || ciphertext || tag layout.
type Cipher interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(blob []byte) ([]byte, error)
}
