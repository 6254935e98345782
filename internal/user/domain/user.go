// Package domain defines the core user domain entities and types.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultkeeper/internal/errors"
)

// User is an account that can obtain access tokens. PasswordHash holds a
// PHC-formatted hash, never the password itself.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")
)

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
