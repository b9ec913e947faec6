// Package dto provides data transfer objects for the ABAC administration endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	customValidation "github.com/caseguard/caseguard/internal/validation"
)

// AttributeRequest is the body of attribute create and update calls.
type AttributeRequest struct {
	Name        string              `json:"name"`
	Category    abacDomain.Category `json:"category"`
	Description string              `json:"description"`
	Level       int                 `json:"level"`
}

// Validate checks if the attribute request is valid.
func (r *AttributeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.AttributeName, validation.Length(1, 100)),
		validation.Field(&r.Category, validation.Required, validation.In(
			abacDomain.CategoryPermission,
			abacDomain.CategoryAuthorization,
			abacDomain.CategoryRestriction,
		)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
		validation.Field(&r.Level, validation.Required, validation.Min(abacDomain.MinLevel), validation.Max(abacDomain.MaxLevel)),
	)
}

// PolicyRequest is the body of policy create and update calls.
type PolicyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Validate checks if the policy request is valid.
func (r *PolicyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, customValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 1000)),
	)
}

// RuleRequest is the body of POST /v1/abac/policies/:id/rules.
type RuleRequest struct {
	AttributeID string                `json:"attribute_id"`
	Operator    abacDomain.Operator   `json:"operator"`
	Value       string                `json:"value"`
	Action      abacDomain.RuleAction `json:"action"`
}

// Validate checks if the rule request is valid.
func (r *RuleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AttributeID, validation.Required, is.UUID),
		validation.Field(&r.Operator, validation.Required, validation.In(
			abacDomain.OperatorEquals,
			abacDomain.OperatorNotEquals,
			abacDomain.OperatorGreaterThan,
			abacDomain.OperatorLessThan,
			abacDomain.OperatorContains,
		)),
		validation.Field(&r.Value, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Action, validation.Required, validation.In(abacDomain.RuleAllow, abacDomain.RuleDeny)),
	)
}

// GrantRequest is the body of POST /v1/actors/:id/attributes.
type GrantRequest struct {
	AttributeID string     `json:"attribute_id"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Reason      string     `json:"reason"`
}

// Validate checks if the grant request is valid.
func (r *GrantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AttributeID, validation.Required, is.UUID),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

// EvaluateRequest is the body of the dry-run POST /v1/abac/evaluate.
type EvaluateRequest struct {
	ActorID           string            `json:"actor_id"`
	Action            abacDomain.Action `json:"action"`
	ResourceType      string            `json:"resource_type"`
	ResourceID        string            `json:"resource_id"`
	RequiredClearance int               `json:"required_clearance"`
}

// Validate checks if the evaluate request is valid. Unknown actions are accepted: the
// evaluator answers them with a denial.
func (r *EvaluateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ActorID, validation.Required, is.UUID),
		validation.Field(&r.Action, validation.Required),
		validation.Field(&r.RequiredClearance, validation.Min(0), validation.Max(abacDomain.MaxLevel)),
	)
}
