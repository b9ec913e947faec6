package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
	databaseMocks "github.com/caseguard/caseguard/internal/database/mocks"
	"github.com/caseguard/caseguard/internal/notification"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// memoryAssignments enforces the unique case_id constraint of case_assignments.
type memoryAssignments struct {
	mu        sync.Mutex
	byCase    map[uuid.UUID]assignmentDomain.Assignment
	err       error
	deleteErr error
}

func newMemoryAssignments() *memoryAssignments {
	return &memoryAssignments{byCase: make(map[uuid.UUID]assignmentDomain.Assignment)}
}

func (s *memoryAssignments) Create(_ context.Context, assignment *assignmentDomain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if _, ok := s.byCase[assignment.CaseID]; ok {
		return assignmentDomain.ErrAlreadyAssigned
	}
	s.byCase[assignment.CaseID] = *assignment
	return nil
}

func (s *memoryAssignments) GetByCase(_ context.Context, caseID uuid.UUID) (*assignmentDomain.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.byCase[caseID]
	if !ok {
		return nil, assignmentDomain.ErrAssignmentNotFound
	}
	return &assignment, nil
}

func (s *memoryAssignments) Delete(_ context.Context, assignmentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteErr != nil {
		return s.deleteErr
	}
	for caseID, assignment := range s.byCase {
		if assignment.ID == assignmentID {
			delete(s.byCase, caseID)
			return nil
		}
	}
	return assignmentDomain.ErrAssignmentNotFound
}

func (s *memoryAssignments) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byCase)
}

type memoryCases struct {
	mu    sync.Mutex
	cases map[uuid.UUID]casesDomain.Case
}

func newMemoryCases(cases ...*casesDomain.Case) *memoryCases {
	s := &memoryCases{cases: make(map[uuid.UUID]casesDomain.Case)}
	for _, c := range cases {
		s.cases[c.ID] = *c
	}
	return s
}

func (s *memoryCases) Get(_ context.Context, caseID uuid.UUID) (*casesDomain.Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return nil, casesDomain.ErrCaseNotFound
	}
	return &c, nil
}

func (s *memoryCases) UpdateStatus(
	_ context.Context,
	caseID uuid.UUID,
	status casesDomain.Status,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return casesDomain.ErrCaseNotFound
	}
	c.Status = status
	c.UpdatedAt = updatedAt
	s.cases[caseID] = c
	return nil
}

type stubActors struct {
	actors []*actorDomain.Actor
	err    error
}

func (s *stubActors) Get(_ context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	for _, a := range s.actors {
		if a.ID == actorID {
			return a, nil
		}
	}
	return nil, actorDomain.ErrActorNotFound
}

func (s *stubActors) ListActiveByRole(_ context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*actorDomain.Actor, 0)
	for _, a := range s.actors {
		if a.IsActive && a.Role == role {
			result = append(result, a)
		}
	}
	return result, nil
}

// stubEvaluator allows unless deny is set and grants clearance levels per actor.
type stubEvaluator struct {
	abacUseCase.Evaluator
	deny       bool
	err        error
	clearances map[uuid.UUID]int
}

func (s *stubEvaluator) Authorize(
	_ context.Context,
	_ uuid.UUID,
	_ abacDomain.Request,
) (abacDomain.Decision, error) {
	if s.err != nil {
		return abacDomain.Decision{}, s.err
	}
	if s.deny {
		return abacDomain.Deny("missing attribute assign_cases"), nil
	}
	return abacDomain.Allow(), nil
}

func (s *stubEvaluator) HasClearance(_ context.Context, actorID uuid.UUID, level int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.clearances[actorID] >= level, nil
}

// memoryVaultUseCase hands out one pseudonym per (user, case) like CreateMapping does.
type memoryVaultUseCase struct {
	vaultUseCase.VaultUseCase
	mu       sync.Mutex
	mappings map[string]string
	revoked  []string
	err      error
}

func newMemoryVaultUseCase() *memoryVaultUseCase {
	return &memoryVaultUseCase{mappings: make(map[string]string)}
}

func mappingKey(userID, caseID uuid.UUID) string {
	return userID.String() + "/" + caseID.String()
}

func (v *memoryVaultUseCase) VerifyAccess(
	_ context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.AccessCheck, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if pseudonym, ok := v.mappings[mappingKey(userID, caseID)]; ok {
		return &vaultDomain.AccessCheck{HasAccess: true, Pseudonym: pseudonym}, nil
	}
	return &vaultDomain.AccessCheck{}, nil
}

func (v *memoryVaultUseCase) CreateMapping(_ context.Context, userID, caseID, _ uuid.UUID) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.err != nil {
		return "", v.err
	}
	key := mappingKey(userID, caseID)
	if pseudonym, ok := v.mappings[key]; ok {
		return pseudonym, nil
	}
	pseudonym, err := vaultDomain.NewPseudonym()
	if err != nil {
		return "", err
	}
	v.mappings[key] = pseudonym
	return pseudonym, nil
}

func (v *memoryVaultUseCase) RevokeMapping(_ context.Context, pseudonym string, _ uuid.UUID) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	for key, p := range v.mappings {
		if p == pseudonym {
			delete(v.mappings, key)
			v.revoked = append(v.revoked, pseudonym)
			return nil
		}
	}
	return vaultDomain.ErrMappingNotFound
}

func (v *memoryVaultUseCase) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.mappings)
}

// countingCredentials issues a fixed credential and counts the calls.
type countingCredentials struct {
	credentialUseCase.CredentialUseCase
	mu     sync.Mutex
	issued []string
	err    error
}

func (c *countingCredentials) Generate(
	_ context.Context,
	caseID uuid.UUID,
	pseudonym string,
) (*credentialDomain.IssuedCredential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	c.issued = append(c.issued, pseudonym)
	return &credentialDomain.IssuedCredential{
		Address:   fmt.Sprintf("case-%d@courts.example", len(c.issued)),
		Password:  "Aa1!Aa1!Aa1!Aa1!",
		Token:     "signed.jwt.token",
		ExpiresAt: time.Now().Add(72 * time.Hour),
	}, nil
}

func (c *countingCredentials) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issued)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyCredential(ctx context.Context, notice notification.CredentialNotice) error {
	return m.Called(ctx, notice).Error(0)
}

var errStoreDown = errors.New("store down")

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
