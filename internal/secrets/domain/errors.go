package domain

import (
	"github.com/allisson/vaultkeeper/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret has the requested id.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretAlreadyExists indicates the owner already has a secret with that name.
	ErrSecretAlreadyExists = errors.Wrap(errors.ErrConflict, "secret already exists")
)
