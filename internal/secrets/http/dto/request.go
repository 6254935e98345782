// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/vaultkeeper/internal/validation"
)

// CreateSecretRequest contains the parameters for storing a secret. Value is
// base64 in JSON and decoded by encoding/json into raw bytes.
type CreateSecretRequest struct {
	Name  string `json:"name"`
	Value []byte `json:"value"`
}

// Validate checks the request shape. Size and naming rules are enforced again by the use case.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
			customValidation.SecretName,
		),
		validation.Field(&r.Value, validation.Required),
	)
}
