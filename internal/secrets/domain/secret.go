// Package domain defines the secret entity and its errors.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret is a named value owned by an authenticated subject. The value is stored
// only as Ciphertext (nonce || ciphertext || tag); Plaintext is filled in memory
// by Get and must be zeroed by the caller.
type Secret struct {
	ID         uuid.UUID
	Name       string
	Owner      string
	Ciphertext []byte
	Plaintext  []byte `json:"-"`
	CreatedAt  time.Time
}
