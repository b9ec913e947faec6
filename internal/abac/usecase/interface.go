// Package usecase implements attribute, policy and grant management together with the
// policy decision point used by every protected operation.
package usecase

import (
	"context"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
)

// AttributeRepository defines persistence operations for ABAC attributes.
// Implementations must support transaction-aware operations via context propagation.
type AttributeRepository interface {
	// Create stores a new attribute. Returns ErrAttributeNameTaken on a duplicate name.
	Create(ctx context.Context, attribute *abacDomain.Attribute) error

	// Update modifies an existing attribute. Returns ErrAttributeNotFound if it does not exist.
	Update(ctx context.Context, attribute *abacDomain.Attribute) error

	// Delete removes an attribute. Returns ErrAttributeNotFound if it does not exist.
	Delete(ctx context.Context, attributeID uuid.UUID) error

	// Get retrieves an attribute by ID. Returns ErrAttributeNotFound if not found.
	Get(ctx context.Context, attributeID uuid.UUID) (*abacDomain.Attribute, error)

	// GetByName retrieves an attribute by its unique name. Returns ErrAttributeNotFound if not found.
	GetByName(ctx context.Context, name string) (*abacDomain.Attribute, error)

	// List returns attributes ordered by name.
	List(ctx context.Context, offset, limit int) ([]*abacDomain.Attribute, error)
}

// PolicyRepository defines persistence operations for security policies and their rules.
// Implementations must support transaction-aware operations via context propagation.
type PolicyRepository interface {
	// Create stores a new policy without rules. Returns ErrPolicyNameTaken on a duplicate name.
	Create(ctx context.Context, policy *abacDomain.SecurityPolicy) error

	// Update modifies name, description and active flag. Returns ErrPolicyNotFound if missing.
	Update(ctx context.Context, policy *abacDomain.SecurityPolicy) error

	// Delete removes a policy and its rules. Returns ErrPolicyNotFound if missing.
	Delete(ctx context.Context, policyID uuid.UUID) error

	// Get retrieves a policy with its rules. Returns ErrPolicyNotFound if not found.
	Get(ctx context.Context, policyID uuid.UUID) (*abacDomain.SecurityPolicy, error)

	// GetByName retrieves a policy with its rules by name.
	GetByName(ctx context.Context, name string) (*abacDomain.SecurityPolicy, error)

	// List returns policies with their rules ordered by name.
	List(ctx context.Context, offset, limit int) ([]*abacDomain.SecurityPolicy, error)

	// ListActive returns every active policy with its rules.
	ListActive(ctx context.Context) ([]abacDomain.SecurityPolicy, error)

	CreateRule(ctx context.Context, rule *abacDomain.PolicyRule) error

	// DeleteRule removes one rule of a policy. Returns ErrRuleNotFound if missing.
	DeleteRule(ctx context.Context, policyID, ruleID uuid.UUID) error

	// CountRulesByAttribute returns how many rules reference the attribute.
	CountRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error)

	// DeleteRulesByAttribute removes every rule referencing the attribute and returns the count.
	DeleteRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error)
}

// GrantRepository defines persistence operations for actor attribute grants.
// Implementations must support transaction-aware operations via context propagation.
type GrantRepository interface {
	// Upsert stores the grant, replacing any previous grant of the same attribute to the actor.
	Upsert(ctx context.Context, grant *abacDomain.Grant) error

	// Delete revokes a grant. Returns ErrGrantNotFound if the actor does not hold the attribute.
	Delete(ctx context.Context, actorID, attributeID uuid.UUID) error

	// ListHeld returns every grant of the actor joined with its attribute, expired ones included.
	ListHeld(ctx context.Context, actorID uuid.UUID) ([]abacDomain.HeldAttribute, error)

	// CountByAttribute returns how many grants reference the attribute.
	CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error)

	// DeleteByAttribute removes every grant of the attribute and returns the count.
	DeleteByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error)
}

// AttributeUseCase manages the attribute catalog.
type AttributeUseCase interface {
	Create(ctx context.Context, input *abacDomain.CreateAttributeInput) (*abacDomain.Attribute, error)

	// Update changes an attribute. Name and description may always change; category and
	// level may only change while no rule or grant references the attribute, otherwise
	// ErrAttributeInUse is returned.
	Update(
		ctx context.Context,
		attributeID uuid.UUID,
		input *abacDomain.UpdateAttributeInput,
	) (*abacDomain.Attribute, error)

	// Delete removes the attribute together with every rule and grant referencing it, in a
	// single transaction.
	Delete(ctx context.Context, attributeID uuid.UUID) error

	Get(ctx context.Context, attributeID uuid.UUID) (*abacDomain.Attribute, error)

	List(ctx context.Context, offset, limit int) ([]*abacDomain.Attribute, error)
}

// PolicyUseCase manages security policies and their rules.
type PolicyUseCase interface {
	Create(ctx context.Context, input *abacDomain.CreatePolicyInput) (*abacDomain.SecurityPolicy, error)
	Update(
		ctx context.Context,
		policyID uuid.UUID,
		input *abacDomain.UpdatePolicyInput,
	) (*abacDomain.SecurityPolicy, error)
	Delete(ctx context.Context, policyID uuid.UUID) error
	Get(ctx context.Context, policyID uuid.UUID) (*abacDomain.SecurityPolicy, error)
	List(ctx context.Context, offset, limit int) ([]*abacDomain.SecurityPolicy, error)

	// AddRule appends a rule to the policy. The referenced attribute must exist.
	AddRule(
		ctx context.Context,
		policyID uuid.UUID,
		input *abacDomain.CreateRuleInput,
	) (*abacDomain.PolicyRule, error)

	RemoveRule(ctx context.Context, policyID, ruleID uuid.UUID) error
}

// GrantUseCase manages which attributes an actor holds.
type GrantUseCase interface {
	// Grant assigns the attribute, replacing an existing grant of the same attribute.
	Grant(ctx context.Context, input *abacDomain.GrantInput) (*abacDomain.Grant, error)

	// Revoke removes the grant. Returns ErrGrantNotFound when the actor does not hold it.
	Revoke(ctx context.Context, actorID, attributeID uuid.UUID) error

	// ListByActor returns the actor's grants including expired ones.
	ListByActor(ctx context.Context, actorID uuid.UUID) ([]abacDomain.HeldAttribute, error)
}

// Evaluator is the policy decision point. It never allows on error: when grants or policies
// cannot be loaded it returns a denial together with ErrEvaluationFailed.
type Evaluator interface {
	// Authorize evaluates the request for the actor against every active policy.
	Authorize(ctx context.Context, actorID uuid.UUID, req abacDomain.Request) (abacDomain.Decision, error)

	// HasClearance reports whether the actor holds an active authorization attribute with a
	// level of at least level.
	HasClearance(ctx context.Context, actorID uuid.UUID, level int) (bool, error)
}
