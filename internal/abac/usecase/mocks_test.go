package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
)

// mockAttributeRepository is a mock implementation of AttributeRepository for testing.
type mockAttributeRepository struct {
	mock.Mock
}

func (m *mockAttributeRepository) Create(ctx context.Context, attribute *abacDomain.Attribute) error {
	return m.Called(ctx, attribute).Error(0)
}

func (m *mockAttributeRepository) Update(ctx context.Context, attribute *abacDomain.Attribute) error {
	return m.Called(ctx, attribute).Error(0)
}

func (m *mockAttributeRepository) Delete(ctx context.Context, attributeID uuid.UUID) error {
	return m.Called(ctx, attributeID).Error(0)
}

func (m *mockAttributeRepository) Get(ctx context.Context, attributeID uuid.UUID) (*abacDomain.Attribute, error) {
	args := m.Called(ctx, attributeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abacDomain.Attribute), args.Error(1)
}

func (m *mockAttributeRepository) GetByName(ctx context.Context, name string) (*abacDomain.Attribute, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abacDomain.Attribute), args.Error(1)
}

func (m *mockAttributeRepository) List(ctx context.Context, offset, limit int) ([]*abacDomain.Attribute, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*abacDomain.Attribute), args.Error(1)
}

// mockPolicyRepository is a mock implementation of PolicyRepository for testing.
type mockPolicyRepository struct {
	mock.Mock
}

func (m *mockPolicyRepository) Create(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	return m.Called(ctx, policy).Error(0)
}

func (m *mockPolicyRepository) Update(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	return m.Called(ctx, policy).Error(0)
}

func (m *mockPolicyRepository) Delete(ctx context.Context, policyID uuid.UUID) error {
	return m.Called(ctx, policyID).Error(0)
}

func (m *mockPolicyRepository) Get(ctx context.Context, policyID uuid.UUID) (*abacDomain.SecurityPolicy, error) {
	args := m.Called(ctx, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abacDomain.SecurityPolicy), args.Error(1)
}

func (m *mockPolicyRepository) GetByName(ctx context.Context, name string) (*abacDomain.SecurityPolicy, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abacDomain.SecurityPolicy), args.Error(1)
}

func (m *mockPolicyRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*abacDomain.SecurityPolicy, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*abacDomain.SecurityPolicy), args.Error(1)
}

func (m *mockPolicyRepository) ListActive(ctx context.Context) ([]abacDomain.SecurityPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]abacDomain.SecurityPolicy), args.Error(1)
}

func (m *mockPolicyRepository) CreateRule(ctx context.Context, rule *abacDomain.PolicyRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *mockPolicyRepository) DeleteRule(ctx context.Context, policyID, ruleID uuid.UUID) error {
	return m.Called(ctx, policyID, ruleID).Error(0)
}

func (m *mockPolicyRepository) CountRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPolicyRepository) DeleteRulesByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).(int64), args.Error(1)
}

// mockGrantRepository is a mock implementation of GrantRepository for testing.
type mockGrantRepository struct {
	mock.Mock
}

func (m *mockGrantRepository) Upsert(ctx context.Context, grant *abacDomain.Grant) error {
	return m.Called(ctx, grant).Error(0)
}

func (m *mockGrantRepository) Delete(ctx context.Context, actorID, attributeID uuid.UUID) error {
	return m.Called(ctx, actorID, attributeID).Error(0)
}

func (m *mockGrantRepository) ListHeld(ctx context.Context, actorID uuid.UUID) ([]abacDomain.HeldAttribute, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]abacDomain.HeldAttribute), args.Error(1)
}

func (m *mockGrantRepository) CountByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGrantRepository) DeleteByAttribute(ctx context.Context, attributeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, attributeID)
	return args.Get(0).(int64), args.Error(1)
}

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordDecision(ctx context.Context, action, outcome string) {
	m.Called(ctx, action, outcome)
}

func held(name string, category abacDomain.Category, level int) abacDomain.HeldAttribute {
	attributeID := uuid.Must(uuid.NewV7())
	return abacDomain.HeldAttribute{
		Grant: abacDomain.Grant{
			ID:          uuid.Must(uuid.NewV7()),
			AttributeID: attributeID,
			GrantedAt:   time.Now().UTC(),
		},
		Attribute: abacDomain.Attribute{
			ID:       attributeID,
			Name:     name,
			Category: category,
			Level:    level,
		},
	}
}

func allowPolicy(name string, attrs ...abacDomain.HeldAttribute) abacDomain.SecurityPolicy {
	policy := abacDomain.SecurityPolicy{ID: uuid.Must(uuid.NewV7()), Name: name, Active: true}
	for _, a := range attrs {
		policy.Rules = append(policy.Rules, abacDomain.PolicyRule{
			ID:          uuid.Must(uuid.NewV7()),
			PolicyID:    policy.ID,
			AttributeID: a.Attribute.ID,
			Operator:    abacDomain.OperatorEquals,
			Value:       "true",
			Action:      abacDomain.RuleAllow,
		})
	}
	return policy
}
