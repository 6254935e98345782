package domain

import (
	"github.com/allisson/vaultkeeper/internal/errors"
)

// Authentication errors.
var (
	// ErrInvalidCredentials is returned for an unknown user and for a wrong
	// password alike, so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates a bearer token failed signature, claim or nonce checks.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrTokenIssuanceFailed indicates a token could not be produced after the
	// password was verified.
	ErrTokenIssuanceFailed = errors.New("token issuance failed")
)
