package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	abacSeed "github.com/caseguard/caseguard/internal/abac/seed"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	actorUseCase "github.com/caseguard/caseguard/internal/actor/usecase"
	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
	"github.com/caseguard/caseguard/internal/keys"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

// MockActorUseCase implements only what the commands call.
type MockActorUseCase struct {
	actorUseCase.ActorUseCase
	mock.Mock
}

func (m *MockActorUseCase) Create(
	ctx context.Context,
	input *actorDomain.CreateActorInput,
) (*actorDomain.CreateActorOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actorDomain.CreateActorOutput), args.Error(1)
}

func (m *MockActorUseCase) Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*actorDomain.Actor), args.Error(1)
}

type MockSeeder struct {
	mock.Mock
}

func (m *MockSeeder) GrantRoleDefaults(
	ctx context.Context,
	catalog *abacSeed.Catalog,
	actor *actorDomain.Actor,
	grantedBy uuid.UUID,
) (int, error) {
	args := m.Called(ctx, catalog, actor, grantedBy)
	return args.Int(0), args.Error(1)
}

func (m *MockSeeder) Apply(ctx context.Context, catalog *abacSeed.Catalog, grantedBy uuid.UUID) (abacSeed.Result, error) {
	args := m.Called(ctx, catalog, grantedBy)
	return args.Get(0).(abacSeed.Result), args.Error(1)
}

type MockCredentialUseCase struct {
	credentialUseCase.CredentialUseCase
	mock.Mock
}

func (m *MockCredentialUseCase) CleanupExpired(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

type MockVaultUseCase struct {
	vaultUseCase.VaultUseCase
	mock.Mock
}

func (m *MockVaultUseCase) VerifyAccessLogs(ctx context.Context, offset, limit int) (*vaultUseCase.VerifyReport, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultUseCase.VerifyReport), args.Error(1)
}

type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, uri string) (keys.Keeper, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(keys.Keeper), args.Error(1)
}

type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	return m.Called().Error(0)
}
