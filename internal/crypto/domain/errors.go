package domain

import (
	"github.com/allisson/vaultkeeper/internal/errors"
)

// Cipher errors. All of them surface as ErrInvalidInput except ErrEncryptionFailed,
// which means the platform random source failed and is treated as internal.
var (
	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMalformedInput indicates a truncated blob or an empty derivation input.
	ErrMalformedInput = errors.Wrap(errors.ErrInvalidInput, "malformed input")

	// ErrDecryptionFailed covers both tampering and the wrong key. The cause is never exposed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrEncryptionFailed indicates the nonce could not be drawn from the random source.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrVaultEntryNotFound indicates the local vault has no entry under the given name.
	ErrVaultEntryNotFound = errors.Wrap(errors.ErrNotFound, "vault entry not found")

	// ErrVaultCorrupted indicates a vault file that does not parse.
	ErrVaultCorrupted = errors.Wrap(errors.ErrInvalidInput, "vault file corrupted")
)
