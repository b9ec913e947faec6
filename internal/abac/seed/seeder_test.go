package seed

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	databaseMocks "github.com/caseguard/caseguard/internal/database/mocks"
)

// The mocks embed the repository interfaces so only the methods the seeder calls need
// an implementation.
type mockAttributeRepository struct {
	mock.Mock
	abacUseCase.AttributeRepository
}

func (m *mockAttributeRepository) Create(ctx context.Context, attribute *abacDomain.Attribute) error {
	return m.Called(ctx, attribute).Error(0)
}

func (m *mockAttributeRepository) GetByName(ctx context.Context, name string) (*abacDomain.Attribute, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abacDomain.Attribute), args.Error(1)
}

type mockPolicyRepository struct {
	mock.Mock
	abacUseCase.PolicyRepository
}

func (m *mockPolicyRepository) Create(ctx context.Context, policy *abacDomain.SecurityPolicy) error {
	return m.Called(ctx, policy).Error(0)
}

func (m *mockPolicyRepository) GetByName(ctx context.Context, name string) (*abacDomain.SecurityPolicy, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*abacDomain.SecurityPolicy), args.Error(1)
}

func (m *mockPolicyRepository) CreateRule(ctx context.Context, rule *abacDomain.PolicyRule) error {
	return m.Called(ctx, rule).Error(0)
}

type mockGrantRepository struct {
	mock.Mock
	abacUseCase.GrantRepository
}

func (m *mockGrantRepository) Upsert(ctx context.Context, grant *abacDomain.Grant) error {
	return m.Called(ctx, grant).Error(0)
}

func (m *mockGrantRepository) ListHeld(ctx context.Context, actorID uuid.UUID) ([]abacDomain.HeldAttribute, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]abacDomain.HeldAttribute), args.Error(1)
}

type mockActorLister struct {
	mock.Mock
}

func (m *mockActorLister) ListActiveByRole(ctx context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*actorDomain.Actor), args.Error(1)
}

func passthroughTx(t *testing.T) *databaseMocks.MockTxManager {
	txManager := databaseMocks.NewMockTxManager(t)
	txManager.EXPECT().
		WithTx(mock.Anything, mock.AnythingOfType("func(context.Context) error")).
		RunAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).
		Maybe()
	return txManager
}

const smallCatalog = `
attributes:
  - {name: view_cases, category: permission, level: 1}
  - {name: secret_information, category: authorization, level: 4}
policies:
  - name: default_permissions
    active: true
    rules:
      - {attribute: view_cases, operator: equals, value: "true", action: allow}
role_defaults:
  judge: [view_cases, secret_information]
`

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	catalog, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)

	t.Run("Success_FreshStore", func(t *testing.T) {
		attributeRepo := &mockAttributeRepository{}
		policyRepo := &mockPolicyRepository{}
		grantRepo := &mockGrantRepository{}
		actors := &mockActorLister{}
		judge := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleJudge}

		attributeRepo.On("GetByName", mock.Anything, mock.Anything).Return(nil, abacDomain.ErrAttributeNotFound)
		attributeRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Attribute")).Return(nil).Twice()
		policyRepo.On("GetByName", mock.Anything, "default_permissions").Return(nil, abacDomain.ErrPolicyNotFound)
		policyRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.SecurityPolicy")).Return(nil)
		policyRepo.On("CreateRule", mock.Anything, mock.MatchedBy(func(r *abacDomain.PolicyRule) bool {
			return r.AttributeID != uuid.Nil && r.Action == abacDomain.RuleAllow
		})).Return(nil).Once()
		actors.On("ListActiveByRole", mock.Anything, actorDomain.RoleJudge).Return([]*actorDomain.Actor{judge}, nil)
		actors.On("ListActiveByRole", mock.Anything, mock.Anything).Return([]*actorDomain.Actor{}, nil)
		grantRepo.On("ListHeld", mock.Anything, judge.ID).Return([]abacDomain.HeldAttribute{}, nil)
		grantRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(g *abacDomain.Grant) bool {
			return g.ActorID == judge.ID && g.Reason == "role default: judge"
		})).Return(nil).Twice()

		var logs bytes.Buffer
		seeder := NewSeeder(passthroughTx(t), attributeRepo, policyRepo, grantRepo, actors,
			slog.New(slog.NewTextHandler(&logs, nil)))
		result, err := seeder.Apply(ctx, catalog, uuid.Nil)

		require.NoError(t, err)
		assert.Equal(t, Result{AttributesCreated: 2, PoliciesCreated: 1, RulesCreated: 1, GrantsCreated: 2}, result)
		assert.Contains(t, logs.String(), "abac catalogue applied")
		attributeRepo.AssertExpectations(t)
		policyRepo.AssertExpectations(t)
		grantRepo.AssertExpectations(t)
	})

	t.Run("Success_Idempotent", func(t *testing.T) {
		attributeRepo := &mockAttributeRepository{}
		policyRepo := &mockPolicyRepository{}
		grantRepo := &mockGrantRepository{}
		actors := &mockActorLister{}
		judge := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleJudge}
		viewCases := &abacDomain.Attribute{ID: uuid.Must(uuid.NewV7()), Name: "view_cases"}
		secret := &abacDomain.Attribute{ID: uuid.Must(uuid.NewV7()), Name: "secret_information"}

		attributeRepo.On("GetByName", mock.Anything, "view_cases").Return(viewCases, nil)
		attributeRepo.On("GetByName", mock.Anything, "secret_information").Return(secret, nil)
		policyRepo.On("GetByName", mock.Anything, "default_permissions").
			Return(&abacDomain.SecurityPolicy{Name: "default_permissions"}, nil)
		actors.On("ListActiveByRole", mock.Anything, actorDomain.RoleJudge).Return([]*actorDomain.Actor{judge}, nil)
		actors.On("ListActiveByRole", mock.Anything, mock.Anything).Return([]*actorDomain.Actor{}, nil)
		grantRepo.On("ListHeld", mock.Anything, judge.ID).Return([]abacDomain.HeldAttribute{
			{Attribute: *viewCases},
			{Attribute: *secret},
		}, nil)

		seeder := NewSeeder(passthroughTx(t), attributeRepo, policyRepo, grantRepo, actors, slog.New(slog.DiscardHandler))
		result, err := seeder.Apply(ctx, catalog, uuid.Nil)

		require.NoError(t, err)
		assert.Equal(t, Result{}, result)
		attributeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		grantRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestSeeder_GrantRoleDefaults(t *testing.T) {
	ctx := context.Background()
	catalog, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)

	attributeRepo := &mockAttributeRepository{}
	grantRepo := &mockGrantRepository{}
	judge := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Role: actorDomain.RoleJudge}
	admin := uuid.Must(uuid.NewV7())

	attributeRepo.On("GetByName", mock.Anything, "view_cases").
		Return(&abacDomain.Attribute{ID: uuid.Must(uuid.NewV7())}, nil)
	attributeRepo.On("GetByName", mock.Anything, "secret_information").
		Return(&abacDomain.Attribute{ID: uuid.Must(uuid.NewV7())}, nil)
	grantRepo.On("ListHeld", mock.Anything, judge.ID).Return([]abacDomain.HeldAttribute{}, nil)
	grantRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(g *abacDomain.Grant) bool {
		return g.GrantedBy == admin
	})).Return(nil)

	seeder := NewSeeder(passthroughTx(t), attributeRepo, nil, grantRepo, nil, slog.New(slog.DiscardHandler))
	granted, err := seeder.GrantRoleDefaults(ctx, catalog, judge, admin)

	require.NoError(t, err)
	assert.Equal(t, 2, granted)
}
