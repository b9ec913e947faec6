// Package dto provides data transfer objects for the identity vault endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// ResolveIdentityRequest is the body of POST /v1/vault/resolve.
type ResolveIdentityRequest struct {
	Pseudonym string `json:"pseudonym"`
}

// Validate checks if the resolve request is valid.
func (r *ResolveIdentityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Pseudonym, validation.Required, customValidation.Pseudonym),
	)
}
