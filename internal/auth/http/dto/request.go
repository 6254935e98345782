// Package dto provides data transfer objects for the token endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	appValidation "github.com/allisson/vaultkeeper/internal/validation"
)

// IssueTokenRequest contains the credentials for POST /v1/token.
type IssueTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (r *IssueTokenRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, appValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
	return appValidation.WrapValidationError(err)
}

// ToCredentials converts the request into domain credentials.
func ToCredentials(req IssueTokenRequest) authDomain.Credentials {
	return authDomain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}
}
