package dto

import (
	"time"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
)

// IssueTokenResponse is returned by POST /v1/token.
type IssueTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ToIssueTokenResponse maps an issued token to its response.
func ToIssueTokenResponse(token *authDomain.IssuedToken) IssueTokenResponse {
	expiresIn := int64(time.Until(token.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return IssueTokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   expiresIn,
		ExpiresAt:   token.ExpiresAt,
	}
}
