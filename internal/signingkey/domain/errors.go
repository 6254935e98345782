package domain

import (
	"github.com/allisson/vaultkeeper/internal/errors"
)

// Signing key error definitions.
var (
	// ErrSigningKeyNotFound indicates no signing key matched the lookup.
	ErrSigningKeyNotFound = errors.Wrap(errors.ErrNotFound, "signing key not found")

	// ErrKeyGenerationFailed indicates the entropy source could not produce a key pair.
	ErrKeyGenerationFailed = errors.New("signing key generation failed")

	// ErrStoreUnavailable indicates the key store could not be read or written.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "signing key store unavailable")

	// ErrInvalidKeyMaterial indicates a persisted key does not hold a valid Ed25519 pair.
	ErrInvalidKeyMaterial = errors.New("invalid signing key material")
)
