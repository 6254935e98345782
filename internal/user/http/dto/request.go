// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/vaultkeeper/internal/user/usecase"
	appValidation "github.com/allisson/vaultkeeper/internal/validation"
)

// RegisterUserRequest represents the API request for user registration.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required fields. Email format and password strength are
// enforced by the use case so every entry point applies the same policy.
func (r *RegisterUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// ToRegisterUserInput converts the request into use case input.
func ToRegisterUserInput(req RegisterUserRequest) usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
	}
}
