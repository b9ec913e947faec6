package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/metrics"
)

const metricsDomain = "abac"

// evaluatorWithMetrics decorates Evaluator with operation and decision metrics.
type evaluatorWithMetrics struct {
	next    Evaluator
	metrics metrics.BusinessMetrics
}

// NewEvaluatorWithMetrics wraps an Evaluator with metrics recording.
func NewEvaluatorWithMetrics(next Evaluator, m metrics.BusinessMetrics) Evaluator {
	return &evaluatorWithMetrics{next: next, metrics: m}
}

// Authorize records the decision outcome per action. Failed evaluations count as "error"
// even though they deny.
func (e *evaluatorWithMetrics) Authorize(
	ctx context.Context,
	actorID uuid.UUID,
	req abacDomain.Request,
) (abacDomain.Decision, error) {
	start := time.Now()
	decision, err := e.next.Authorize(ctx, actorID, req)

	outcome := "deny"
	switch {
	case err != nil:
		outcome = "error"
	case decision.Allowed:
		outcome = "allow"
	}

	e.metrics.RecordDecision(ctx, string(req.Action), outcome)
	metrics.Observe(ctx, e.metrics, metricsDomain, "authorize", start, err)

	return decision, err
}

func (e *evaluatorWithMetrics) HasClearance(ctx context.Context, actorID uuid.UUID, level int) (bool, error) {
	start := time.Now()
	ok, err := e.next.HasClearance(ctx, actorID, level)
	metrics.Observe(ctx, e.metrics, metricsDomain, "has_clearance", start, err)
	return ok, err
}

// attributeUseCaseWithMetrics decorates AttributeUseCase with metrics instrumentation.
type attributeUseCaseWithMetrics struct {
	next    AttributeUseCase
	metrics metrics.BusinessMetrics
}

// NewAttributeUseCaseWithMetrics wraps an AttributeUseCase with metrics recording.
func NewAttributeUseCaseWithMetrics(next AttributeUseCase, m metrics.BusinessMetrics) AttributeUseCase {
	return &attributeUseCaseWithMetrics{next: next, metrics: m}
}

func (a *attributeUseCaseWithMetrics) Create(
	ctx context.Context,
	input *abacDomain.CreateAttributeInput,
) (*abacDomain.Attribute, error) {
	start := time.Now()
	attribute, err := a.next.Create(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "attribute_create", start, err)
	return attribute, err
}

func (a *attributeUseCaseWithMetrics) Update(
	ctx context.Context,
	attributeID uuid.UUID,
	input *abacDomain.UpdateAttributeInput,
) (*abacDomain.Attribute, error) {
	start := time.Now()
	attribute, err := a.next.Update(ctx, attributeID, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "attribute_update", start, err)
	return attribute, err
}

func (a *attributeUseCaseWithMetrics) Delete(ctx context.Context, attributeID uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, attributeID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "attribute_delete", start, err)
	return err
}

func (a *attributeUseCaseWithMetrics) Get(ctx context.Context, attributeID uuid.UUID) (*abacDomain.Attribute, error) {
	start := time.Now()
	attribute, err := a.next.Get(ctx, attributeID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "attribute_get", start, err)
	return attribute, err
}

func (a *attributeUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*abacDomain.Attribute, error) {
	start := time.Now()
	attributes, err := a.next.List(ctx, offset, limit)
	metrics.Observe(ctx, a.metrics, metricsDomain, "attribute_list", start, err)
	return attributes, err
}

// policyUseCaseWithMetrics decorates PolicyUseCase with metrics instrumentation.
type policyUseCaseWithMetrics struct {
	next    PolicyUseCase
	metrics metrics.BusinessMetrics
}

// NewPolicyUseCaseWithMetrics wraps a PolicyUseCase with metrics recording.
func NewPolicyUseCaseWithMetrics(next PolicyUseCase, m metrics.BusinessMetrics) PolicyUseCase {
	return &policyUseCaseWithMetrics{next: next, metrics: m}
}

func (p *policyUseCaseWithMetrics) Create(
	ctx context.Context,
	input *abacDomain.CreatePolicyInput,
) (*abacDomain.SecurityPolicy, error) {
	start := time.Now()
	policy, err := p.next.Create(ctx, input)
	metrics.Observe(ctx, p.metrics, metricsDomain, "policy_create", start, err)
	return policy, err
}

func (p *policyUseCaseWithMetrics) Update(
	ctx context.Context,
	policyID uuid.UUID,
	input *abacDomain.UpdatePolicyInput,
) (*abacDomain.SecurityPolicy, error) {
	start := time.Now()
	policy, err := p.next.Update(ctx, policyID, input)
	metrics.Observe(ctx, p.metrics, metricsDomain, "policy_update", start, err)
	return policy, err
}

func (p *policyUseCaseWithMetrics) Delete(ctx context.Context, policyID uuid.UUID) error {
	start := time.Now()
	err := p.next.Delete(ctx, policyID)
	metrics.Observe(ctx, p.metrics, metricsDomain, "policy_delete", start, err)
	return err
}

func (p *policyUseCaseWithMetrics) Get(ctx context.Context, policyID uuid.UUID) (*abacDomain.SecurityPolicy, error) {
	start := time.Now()
	policy, err := p.next.Get(ctx, policyID)
	metrics.Observe(ctx, p.metrics, metricsDomain, "policy_get", start, err)
	return policy, err
}

func (p *policyUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*abacDomain.SecurityPolicy, error) {
	start := time.Now()
	policies, err := p.next.List(ctx, offset, limit)
	metrics.Observe(ctx, p.metrics, metricsDomain, "policy_list", start, err)
	return policies, err
}

func (p *policyUseCaseWithMetrics) AddRule(
	ctx context.Context,
	policyID uuid.UUID,
	input *abacDomain.CreateRuleInput,
) (*abacDomain.PolicyRule, error) {
	start := time.Now()
	rule, err := p.next.AddRule(ctx, policyID, input)
	metrics.Observe(ctx, p.metrics, metricsDomain, "rule_add", start, err)
	return rule, err
}

func (p *policyUseCaseWithMetrics) RemoveRule(ctx context.Context, policyID, ruleID uuid.UUID) error {
	start := time.Now()
	err := p.next.RemoveRule(ctx, policyID, ruleID)
	metrics.Observe(ctx, p.metrics, metricsDomain, "rule_remove", start, err)
	return err
}
