package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
)

// mockCredentialRepository is a mock implementation of CredentialRepository for testing.
type mockCredentialRepository struct {
	mock.Mock
}

func (m *mockCredentialRepository) Create(ctx context.Context, credential *credentialDomain.EphemeralCredential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *mockCredentialRepository) GetByAccessTokenHash(
	ctx context.Context,
	tokenHash string,
) (*credentialDomain.EphemeralCredential, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.EphemeralCredential), args.Error(1)
}

func (m *mockCredentialRepository) ListActiveByCase(
	ctx context.Context,
	caseID uuid.UUID,
	now time.Time,
) ([]*credentialDomain.EphemeralCredential, error) {
	args := m.Called(ctx, caseID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.EphemeralCredential), args.Error(1)
}

func (m *mockCredentialRepository) MarkAsUsed(ctx context.Context, tokenHash string, usedAt time.Time) error {
	return m.Called(ctx, tokenHash, usedAt).Error(0)
}

func (m *mockCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// memoryCredentials mirrors the ephemeral_credentials table constraints.
type memoryCredentials struct {
	mu          sync.Mutex
	credentials map[string]*credentialDomain.EphemeralCredential
}

func newMemoryCredentials() *memoryCredentials {
	return &memoryCredentials{credentials: make(map[string]*credentialDomain.EphemeralCredential)}
}

func (s *memoryCredentials) Create(_ context.Context, credential *credentialDomain.EphemeralCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.credentials {
		if existing.TempAddress == credential.TempAddress {
			return credentialDomain.ErrAddressCollision
		}
	}
	if _, ok := s.credentials[credential.AccessTokenHash]; ok {
		return credentialDomain.ErrAddressCollision
	}
	stored := *credential
	s.credentials[credential.AccessTokenHash] = &stored
	return nil
}

func (s *memoryCredentials) GetByAccessTokenHash(
	_ context.Context,
	tokenHash string,
) (*credentialDomain.EphemeralCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.credentials[tokenHash]
	if !ok {
		return nil, credentialDomain.ErrInvalidCredential
	}
	found := *credential
	return &found, nil
}

func (s *memoryCredentials) ListActiveByCase(
	_ context.Context,
	caseID uuid.UUID,
	now time.Time,
) ([]*credentialDomain.EphemeralCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*credentialDomain.EphemeralCredential, 0)
	for _, credential := range s.credentials {
		if credential.CaseID == caseID && credential.UsedAt == nil && credential.ExpiresAt.After(now) {
			found := *credential
			result = append(result, &found)
		}
	}
	return result, nil
}

func (s *memoryCredentials) MarkAsUsed(_ context.Context, tokenHash string, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	credential, ok := s.credentials[tokenHash]
	if !ok || credential.UsedAt != nil || !usedAt.Before(credential.ExpiresAt) {
		return credentialDomain.ErrCredentialUsed
	}
	credential.UsedAt = &usedAt
	return nil
}

func (s *memoryCredentials) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for hash, credential := range s.credentials {
		if credential.ExpiresAt.Before(now) {
			delete(s.credentials, hash)
			deleted++
		}
	}
	return deleted, nil
}

func (s *memoryCredentials) CountExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, credential := range s.credentials {
		if credential.ExpiresAt.Before(now) {
			count++
		}
	}
	return count, nil
}

func (s *memoryCredentials) all() []credentialDomain.EphemeralCredential {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]credentialDomain.EphemeralCredential, 0, len(s.credentials))
	for _, credential := range s.credentials {
		result = append(result, *credential)
	}
	return result
}

func (s *memoryCredentials) setExpiry(tokenHash string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials[tokenHash].ExpiresAt = expiresAt
}

// prefixSecretService stands in for argon2id so tests stay fast.
type prefixSecretService struct{}

func (prefixSecretService) GenerateSecret() (string, string, error) {
	return "secret", "hashed:secret", nil
}

func (prefixSecretService) HashSecret(plainSecret string) (string, error) {
	return "hashed:" + plainSecret, nil
}

func (prefixSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	return strings.TrimPrefix(hashedSecret, "hashed:") == plainSecret
}
