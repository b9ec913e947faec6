package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
)

// mockActorRepository is a mock implementation of ActorRepository for testing.
type mockActorRepository struct {
	mock.Mock
}

func (m *mockActorRepository) Create(ctx context.Context, actor *actorDomain.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *mockActorRepository) Update(ctx context.Context, actor *actorDomain.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *mockActorRepository) Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actorDomain.Actor), args.Error(1)
}

func (m *mockActorRepository) GetByEmail(ctx context.Context, email string) (*actorDomain.Actor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actorDomain.Actor), args.Error(1)
}

func (m *mockActorRepository) List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*actorDomain.Actor), args.Error(1)
}

func (m *mockActorRepository) ListActiveByRole(
	ctx context.Context,
	role actorDomain.Role,
) ([]*actorDomain.Actor, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*actorDomain.Actor), args.Error(1)
}

func (m *mockActorRepository) UpdateLockState(
	ctx context.Context,
	actorID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	return m.Called(ctx, actorID, failedAttempts, lockedUntil).Error(0)
}

// mockTokenRepository is a mock implementation of TokenRepository for testing.
type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) Create(ctx context.Context, token *actorDomain.Token) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*actorDomain.Token, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actorDomain.Token), args.Error(1)
}

func (m *mockTokenRepository) RevokeByActor(ctx context.Context, actorID uuid.UUID, revokedAt time.Time) error {
	return m.Called(ctx, actorID, revokedAt).Error(0)
}

// mockSecretService is a mock implementation of service.SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret, hashedSecret string) bool {
	return m.Called(plainSecret, hashedSecret).Bool(0)
}

// mockTokenService is a mock implementation of service.TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	return m.Called(plainToken).String(0)
}
