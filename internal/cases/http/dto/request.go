// Package dto provides data transfer objects for the case endpoints.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// CreateCaseRequest is the body of POST /v1/cases.
type CreateCaseRequest struct {
	Number         string `json:"number"`
	Title          string `json:"title"`
	Classification string `json:"classification"`
}

// Validate checks if the create case request is valid.
func (r *CreateCaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Number, validation.Required, customValidation.NotBlank, validation.Length(1, 64)),
		validation.Field(&r.Title, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Classification, validation.Required, validation.In(
			string(casesDomain.ClassificationPublic),
			string(casesDomain.ClassificationConfidential),
			string(casesDomain.ClassificationSecret),
			string(casesDomain.ClassificationTopSecret),
		)),
	)
}

// ToInput converts the request to the use case input.
func (r *CreateCaseRequest) ToInput(createdBy uuid.UUID) casesDomain.CreateCaseInput {
	return casesDomain.CreateCaseInput{
		Number:         r.Number,
		Title:          r.Title,
		Classification: casesDomain.Classification(r.Classification),
		CreatedBy:      createdBy,
	}
}
