package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	databaseMocks "github.com/caseguard/caseguard/internal/database/mocks"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

// mockMappingRepository is a mock implementation of MappingRepository for testing.
type mockMappingRepository struct {
	mock.Mock
}

func (m *mockMappingRepository) Create(ctx context.Context, mapping *vaultDomain.IdentityMapping) error {
	return m.Called(ctx, mapping).Error(0)
}

func (m *mockMappingRepository) GetByPseudonym(
	ctx context.Context,
	pseudonym string,
) (*vaultDomain.IdentityMapping, error) {
	args := m.Called(ctx, pseudonym)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.IdentityMapping), args.Error(1)
}

func (m *mockMappingRepository) GetByUserAndCase(
	ctx context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.IdentityMapping, error) {
	args := m.Called(ctx, userID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.IdentityMapping), args.Error(1)
}

func (m *mockMappingRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]vaultDomain.CasePseudonym, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vaultDomain.CasePseudonym), args.Error(1)
}

func (m *mockMappingRepository) RecordAccess(ctx context.Context, pseudonym string, accessedAt time.Time) error {
	return m.Called(ctx, pseudonym, accessedAt).Error(0)
}

func (m *mockMappingRepository) Delete(ctx context.Context, pseudonym string) error {
	return m.Called(ctx, pseudonym).Error(0)
}

// mockAccessLogRepository is a mock implementation of AccessLogRepository for testing.
type mockAccessLogRepository struct {
	mock.Mock
}

func (m *mockAccessLogRepository) Create(ctx context.Context, entry *vaultDomain.IdentityAccessLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAccessLogRepository) List(
	ctx context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.IdentityAccessLog), args.Error(1)
}

// memoryVault is an in-memory store that enforces the same unique constraints as the vault
// schema. It backs the concurrency tests.
type memoryVault struct {
	mu       sync.Mutex
	mappings map[string]vaultDomain.IdentityMapping
	logs     []vaultDomain.IdentityAccessLog
}

func newMemoryVault() *memoryVault {
	return &memoryVault{mappings: make(map[string]vaultDomain.IdentityMapping)}
}

func (s *memoryVault) Create(_ context.Context, mapping *vaultDomain.IdentityMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[mapping.Pseudonym]; ok {
		return vaultDomain.ErrPseudonymCollision
	}
	for _, existing := range s.mappings {
		if existing.UserID == mapping.UserID && existing.CaseID == mapping.CaseID {
			return vaultDomain.ErrMappingExists
		}
	}
	s.mappings[mapping.Pseudonym] = *mapping
	return nil
}

func (s *memoryVault) GetByPseudonym(_ context.Context, pseudonym string) (*vaultDomain.IdentityMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, ok := s.mappings[pseudonym]
	if !ok {
		return nil, vaultDomain.ErrMappingNotFound
	}
	return &mapping, nil
}

func (s *memoryVault) GetByUserAndCase(
	_ context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.IdentityMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, mapping := range s.mappings {
		if mapping.UserID == userID && mapping.CaseID == caseID {
			return &mapping, nil
		}
	}
	return nil, vaultDomain.ErrMappingNotFound
}

func (s *memoryVault) ListByUser(_ context.Context, userID uuid.UUID) ([]vaultDomain.CasePseudonym, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]vaultDomain.CasePseudonym, 0)
	for _, mapping := range s.mappings {
		if mapping.UserID == userID {
			result = append(result, vaultDomain.CasePseudonym{Pseudonym: mapping.Pseudonym, CaseID: mapping.CaseID})
		}
	}
	return result, nil
}

func (s *memoryVault) RecordAccess(_ context.Context, pseudonym string, accessedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mapping, ok := s.mappings[pseudonym]
	if !ok {
		return vaultDomain.ErrMappingNotFound
	}
	mapping.AccessCount++
	mapping.LastAccessedAt = &accessedAt
	s.mappings[pseudonym] = mapping
	return nil
}

func (s *memoryVault) Delete(_ context.Context, pseudonym string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mappings[pseudonym]; !ok {
		return vaultDomain.ErrMappingNotFound
	}
	delete(s.mappings, pseudonym)
	return nil
}

// memoryAccessLog shares the vault lock so log counts stay consistent with mappings.
type memoryAccessLog struct {
	vault *memoryVault
}

func (l *memoryAccessLog) Create(_ context.Context, entry *vaultDomain.IdentityAccessLog) error {
	l.vault.mu.Lock()
	defer l.vault.mu.Unlock()

	l.vault.logs = append(l.vault.logs, *entry)
	return nil
}

func (l *memoryAccessLog) List(
	_ context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	l.vault.mu.Lock()
	defer l.vault.mu.Unlock()

	result := make([]*vaultDomain.IdentityAccessLog, 0)
	for i := len(l.vault.logs) - 1; i >= 0; i-- {
		entry := l.vault.logs[i]
		if filter.Pseudonym == "" || entry.Pseudonym == filter.Pseudonym {
			result = append(result, &entry)
		}
	}
	if offset >= len(result) {
		return []*vaultDomain.IdentityAccessLog{}, nil
	}
	return result[offset:min(offset+limit, len(result))], nil
}

func (l *memoryAccessLog) countByReason(reason vaultDomain.AccessReason) int {
	l.vault.mu.Lock()
	defer l.vault.mu.Unlock()

	n := 0
	for _, entry := range l.vault.logs {
		if entry.AccessReason == reason {
			n++
		}
	}
	return n
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
