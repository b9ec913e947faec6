package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
)

type policyUseCase struct {
	txManager     database.TxManager
	policyRepo    PolicyRepository
	attributeRepo AttributeRepository
}

func (p *policyUseCase) Create(
	ctx context.Context,
	input *abacDomain.CreatePolicyInput,
) (*abacDomain.SecurityPolicy, error) {
	now := time.Now().UTC()
	policy := &abacDomain.SecurityPolicy{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Description: input.Description,
		Active:      input.Active,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		Rules:       []abacDomain.PolicyRule{},
	}

	if err := p.policyRepo.Create(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (p *policyUseCase) Update(
	ctx context.Context,
	policyID uuid.UUID,
	input *abacDomain.UpdatePolicyInput,
) (*abacDomain.SecurityPolicy, error) {
	policy, err := p.policyRepo.Get(ctx, policyID)
	if err != nil {
		return nil, err
	}

	policy.Name = input.Name
	policy.Description = input.Description
	policy.Active = input.Active
	policy.UpdatedAt = time.Now().UTC()

	if err := p.policyRepo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (p *policyUseCase) Delete(ctx context.Context, policyID uuid.UUID) error {
	return p.policyRepo.Delete(ctx, policyID)
}

func (p *policyUseCase) Get(ctx context.Context, policyID uuid.UUID) (*abacDomain.SecurityPolicy, error) {
	return p.policyRepo.Get(ctx, policyID)
}

func (p *policyUseCase) List(ctx context.Context, offset, limit int) ([]*abacDomain.SecurityPolicy, error) {
	return p.policyRepo.List(ctx, offset, limit)
}

// AddRule checks the policy and the attribute inside one transaction so a concurrent
// attribute deletion cannot leave a dangling rule.
func (p *policyUseCase) AddRule(
	ctx context.Context,
	policyID uuid.UUID,
	input *abacDomain.CreateRuleInput,
) (*abacDomain.PolicyRule, error) {
	if !input.Operator.IsValid() {
		return nil, abacDomain.ErrInvalidOperator
	}
	if !input.Action.IsValid() {
		return nil, abacDomain.ErrInvalidRuleAction
	}

	rule := &abacDomain.PolicyRule{
		ID:          uuid.Must(uuid.NewV7()),
		PolicyID:    policyID,
		AttributeID: input.AttributeID,
		Operator:    input.Operator,
		Value:       input.Value,
		Action:      input.Action,
		CreatedAt:   time.Now().UTC(),
	}

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := p.policyRepo.Get(ctx, policyID); err != nil {
			return err
		}
		if _, err := p.attributeRepo.Get(ctx, input.AttributeID); err != nil {
			return err
		}
		return p.policyRepo.CreateRule(ctx, rule)
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (p *policyUseCase) RemoveRule(ctx context.Context, policyID, ruleID uuid.UUID) error {
	return p.policyRepo.DeleteRule(ctx, policyID, ruleID)
}

// NewPolicyUseCase creates a new PolicyUseCase with the provided dependencies.
func NewPolicyUseCase(
	txManager database.TxManager,
	policyRepo PolicyRepository,
	attributeRepo AttributeRepository,
) PolicyUseCase {
	return &policyUseCase{
		txManager:     txManager,
		policyRepo:    policyRepo,
		attributeRepo: attributeRepo,
	}
}
