// Package dto provides data transfer objects for the case session endpoints.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// OpenSessionRequest is the body of POST /v1/case-sessions.
type OpenSessionRequest struct {
	CaseID   string `json:"case_id"`
	Password string `json:"password"`
}

// Validate checks if the password login request is valid.
func (r *OpenSessionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CaseID, validation.Required, is.UUID),
		validation.Field(&r.Password, validation.Required, customValidation.NotBlank),
	)
}

// OpenSessionWithLinkRequest is the body of POST /v1/case-sessions/link.
type OpenSessionWithLinkRequest struct {
	Token string `json:"token"`
}

// Validate checks if the link login request is valid.
func (r *OpenSessionWithLinkRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Token, validation.Required, customValidation.NoWhitespace),
	)
}
