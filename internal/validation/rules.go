// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/caseguard/caseguard/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	pseudonymRegex = regexp.MustCompile(`^anon_[0-9a-f]{32}$`)

	attributeNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{1,99}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Pseudonym validates the shape of an anonymous actor id.
var Pseudonym = validation.NewStringRuleWithError(
	func(s string) bool {
		return pseudonymRegex.MatchString(s)
	},
	validation.NewError("validation_pseudonym", "must be a valid pseudonym"),
)

// AttributeName validates snake_case attribute identifiers.
var AttributeName = validation.NewStringRuleWithError(
	func(s string) bool {
		return attributeNameRegex.MatchString(s)
	},
	validation.NewError("validation_attribute_name", "must be a lowercase snake_case identifier"),
)
