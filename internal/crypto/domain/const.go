// Package domain defines the constants, errors and collaborator interfaces of the secret cipher.
package domain

import "context"

const (
	// KeySize is the AES-256 key length in bytes. Derived keys always have this length.
	KeySize = 32

	// NonceSize is the AES-GCM nonce length in bytes. Every sealed blob starts with it.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag length appended to the ciphertext.
	TagSize = 16

	// PBKDF2Iterations is the iteration count of the passphrase derivation.
	PBKDF2Iterations = 10000
)

// KMSKeeper unwraps operator secrets held by an external key management service.
// *secrets.Keeper from gocloud.dev satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
