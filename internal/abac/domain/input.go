package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreateAttributeInput holds the fields needed to define a new attribute.
type CreateAttributeInput struct {
	Name        string
	Category    Category
	Description string
	Level       int
}

// UpdateAttributeInput holds the mutable fields of an attribute.
type UpdateAttributeInput struct {
	Name        string
	Category    Category
	Description string
	Level       int
}

// CreatePolicyInput holds the fields needed to define a security policy.
type CreatePolicyInput struct {
	Name        string
	Description string
	Active      bool
	CreatedBy   uuid.UUID
}

// UpdatePolicyInput holds the mutable fields of a security policy.
type UpdatePolicyInput struct {
	Name        string
	Description string
	Active      bool
}

// CreateRuleInput holds the fields of a rule added to a policy.
type CreateRuleInput struct {
	AttributeID uuid.UUID
	Operator    Operator
	Value       string
	Action      RuleAction
}

// GrantInput assigns an attribute to an actor. Granting an attribute the actor already holds
// replaces the previous grant.
type GrantInput struct {
	ActorID     uuid.UUID
	AttributeID uuid.UUID
	GrantedBy   uuid.UUID
	ExpiresAt   *time.Time
	Reason      string
}
