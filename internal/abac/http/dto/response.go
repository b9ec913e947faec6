package dto

import (
	"time"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
)

// AttributeResponse represents an attribute in API responses.
type AttributeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Level       int       `json:"level"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MapAttributeToResponse converts a domain attribute to an API response.
func MapAttributeToResponse(attribute *abacDomain.Attribute) AttributeResponse {
	return AttributeResponse{
		ID:          attribute.ID.String(),
		Name:        attribute.Name,
		Category:    string(attribute.Category),
		Description: attribute.Description,
		Level:       attribute.Level,
		CreatedAt:   attribute.CreatedAt,
		UpdatedAt:   attribute.UpdatedAt,
	}
}

// MapAttributesToResponse converts a slice of domain attributes.
func MapAttributesToResponse(attributes []*abacDomain.Attribute) []AttributeResponse {
	responses := make([]AttributeResponse, 0, len(attributes))
	for _, attribute := range attributes {
		responses = append(responses, MapAttributeToResponse(attribute))
	}
	return responses
}

// RuleResponse represents a policy rule in API responses.
type RuleResponse struct {
	ID          string    `json:"id"`
	AttributeID string    `json:"attribute_id"`
	Operator    string    `json:"operator"`
	Value       string    `json:"value"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapRuleToResponse converts a domain rule to an API response.
func MapRuleToResponse(rule *abacDomain.PolicyRule) RuleResponse {
	return RuleResponse{
		ID:          rule.ID.String(),
		AttributeID: rule.AttributeID.String(),
		Operator:    string(rule.Operator),
		Value:       rule.Value,
		Action:      string(rule.Action),
		CreatedAt:   rule.CreatedAt,
	}
}

// PolicyResponse represents a security policy with its rules in API responses.
type PolicyResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Active      bool           `json:"active"`
	CreatedBy   string         `json:"created_by"`
	Rules       []RuleResponse `json:"rules"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// MapPolicyToResponse converts a domain policy to an API response.
func MapPolicyToResponse(policy *abacDomain.SecurityPolicy) PolicyResponse {
	rules := make([]RuleResponse, 0, len(policy.Rules))
	for i := range policy.Rules {
		rules = append(rules, MapRuleToResponse(&policy.Rules[i]))
	}
	return PolicyResponse{
		ID:          policy.ID.String(),
		Name:        policy.Name,
		Description: policy.Description,
		Active:      policy.Active,
		CreatedBy:   policy.CreatedBy.String(),
		Rules:       rules,
		CreatedAt:   policy.CreatedAt,
		UpdatedAt:   policy.UpdatedAt,
	}
}

// MapPoliciesToResponse converts a slice of domain policies.
func MapPoliciesToResponse(policies []*abacDomain.SecurityPolicy) []PolicyResponse {
	responses := make([]PolicyResponse, 0, len(policies))
	for _, policy := range policies {
		responses = append(responses, MapPolicyToResponse(policy))
	}
	return responses
}

// GrantResponse represents an attribute held by an actor.
type GrantResponse struct {
	ID          string     `json:"id"`
	ActorID     string     `json:"actor_id"`
	AttributeID string     `json:"attribute_id"`
	Attribute   string     `json:"attribute,omitempty"`
	Category    string     `json:"category,omitempty"`
	Level       int        `json:"level,omitempty"`
	GrantedBy   string     `json:"granted_by"`
	GrantedAt   time.Time  `json:"granted_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	Active      bool       `json:"active"`
}

// MapGrantToResponse converts a grant to an API response.
func MapGrantToResponse(grant *abacDomain.Grant, now time.Time) GrantResponse {
	return GrantResponse{
		ID:          grant.ID.String(),
		ActorID:     grant.ActorID.String(),
		AttributeID: grant.AttributeID.String(),
		GrantedBy:   grant.GrantedBy.String(),
		GrantedAt:   grant.GrantedAt,
		ExpiresAt:   grant.ExpiresAt,
		Reason:      grant.Reason,
		Active:      grant.IsActiveAt(now),
	}
}

// MapHeldToResponse converts held attributes, flagging expired grants as inactive.
func MapHeldToResponse(held []abacDomain.HeldAttribute, now time.Time) []GrantResponse {
	responses := make([]GrantResponse, 0, len(held))
	for i := range held {
		response := MapGrantToResponse(&held[i].Grant, now)
		response.Attribute = held[i].Attribute.Name
		response.Category = string(held[i].Attribute.Category)
		response.Level = held[i].Attribute.Level
		responses = append(responses, response)
	}
	return responses
}

// DecisionResponse is the result of a dry-run evaluation.
type DecisionResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}
