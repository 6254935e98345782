// Package validation holds the jellydator/validation rules shared by request
// DTOs and use case inputs.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/vaultkeeper/internal/errors"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	secretNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/\-]*$`)
)

// WrapValidationError turns a validation failure into ErrInvalidInput so the
// HTTP layer answers 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// DefaultPasswordStrength is the policy applied to user passwords.
var DefaultPasswordStrength = PasswordStrength{
	MinLength:     12,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

// PasswordStrength is a validation.Rule for password composition.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate implements validation.Rule. Only the first unmet requirement is reported.
func (p PasswordStrength) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.MinLength),
		)
	}

	checks := []struct {
		enabled bool
		match   func(rune) bool
		code    string
		message string
	}{
		{p.RequireUpper, unicode.IsUpper, "validation_password_uppercase", "uppercase letter"},
		{p.RequireLower, unicode.IsLower, "validation_password_lowercase", "lowercase letter"},
		{p.RequireNumber, unicode.IsNumber, "validation_password_number", "number"},
		{p.RequireSpecial, isSpecial, "validation_password_special", "special character"},
	}
	for _, c := range checks {
		if c.enabled && !strings.ContainsFunc(s, c.match) {
			return validation.NewError(c.code, "password must contain at least one "+c.message)
		}
	}

	return nil
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Email validates email format.
var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace rejects leading or trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank rejects strings that are empty after trimming.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// SecretName accepts letters, digits, dot, underscore, dash and slash, starting
// with a letter or digit. Slashes let callers group names like paths.
var SecretName = validation.NewStringRuleWithError(
	secretNameRegex.MatchString,
	validation.NewError(
		"validation_secret_name",
		"must start with a letter or digit and contain only letters, digits, '.', '_', '-' or '/'",
	),
)
