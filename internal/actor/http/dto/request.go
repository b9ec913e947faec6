// Package dto provides data transfer objects for actor and token endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

var validRoles = func() []interface{} {
	roles := make([]interface{}, 0, len(actorDomain.Roles()))
	for _, role := range actorDomain.Roles() {
		roles = append(roles, role)
	}
	return roles
}()

// CreateActorRequest contains the parameters for creating an actor.
type CreateActorRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     actorDomain.Role `json:"role"`
	IsActive bool             `json:"is_active"`
}

// Validate checks if the create actor request is valid.
func (r *CreateActorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email, validation.Required, customValidation.Email, validation.Length(3, 255)),
		validation.Field(&r.Role, validation.Required, validation.In(validRoles...)),
	)
}

// UpdateActorRequest contains the mutable fields of an actor.
type UpdateActorRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Role     actorDomain.Role `json:"role"`
	IsActive bool             `json:"is_active"`
}

// Validate checks if the update actor request is valid.
func (r *UpdateActorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Email, validation.Required, customValidation.Email, validation.Length(3, 255)),
		validation.Field(&r.Role, validation.Required, validation.In(validRoles...)),
	)
}

// IssueTokenRequest contains the credentials for issuing a bearer token.
type IssueTokenRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"` //nolint:gosec // request field, never logged
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Secret, validation.Required, customValidation.NotBlank),
	)
}
