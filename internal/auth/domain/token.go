// Package domain defines the credential, claim and key set types used to issue
// and validate access tokens.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenType is the OAuth 2.0 token type of every issued token.
const TokenType = "Bearer"

// Credentials is what a user presents to obtain a token.
type Credentials struct {
	Email    string
	Password string
}

// Claims is the payload carried by an access token.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// Nonce is hex(HMAC-SHA256(auth secret, subject)). It binds the token to
	// this deployment's secret so a token signed by a leaked key alone is rejected.
	Nonce string
	KeyID uuid.UUID
}

// IssuedToken is a signed access token.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	KeyID       uuid.UUID
}
