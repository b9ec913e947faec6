package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/config"
)

func tokenConfig() *config.Config {
	return &config.Config{
		AuthTokenExpiration: time.Hour,
		LockoutMaxAttempts:  3,
		LockoutDuration:     30 * time.Minute,
	}
}

func newTestTokenUseCase(
	actorRepo *mockActorRepository,
	tokenRepo *mockTokenRepository,
	secretService *mockSecretService,
	tokenService *mockTokenService,
	now time.Time,
) *tokenUseCase {
	uc := NewTokenUseCase(tokenConfig(), actorRepo, tokenRepo, secretService, tokenService).(*tokenUseCase)
	uc.now = func() time.Time { return now }
	return uc
}

func TestTokenUseCase_Issue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	input := &actorDomain.IssueTokenInput{Email: "judge@court.example", Secret: "plain"}

	t.Run("Success", func(t *testing.T) {
		actor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Secret: "hash", IsActive: true}
		actorRepo := &mockActorRepository{}
		tokenRepo := &mockTokenRepository{}
		secretService := &mockSecretService{}
		tokenService := &mockTokenService{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(actor, nil)
		secretService.On("CompareSecret", "plain", "hash").Return(true)
		tokenService.On("GenerateToken").Return("plain-token", "token-hash", nil)
		tokenRepo.On("Create", ctx, mock.MatchedBy(func(tok *actorDomain.Token) bool {
			return tok.TokenHash == "token-hash" && tok.ActorID == actor.ID && tok.ExpiresAt.Equal(now.Add(time.Hour))
		})).Return(nil)

		uc := newTestTokenUseCase(actorRepo, tokenRepo, secretService, tokenService, now)
		output, err := uc.Issue(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, "plain-token", output.PlainToken)
		assert.Equal(t, now.Add(time.Hour), output.ExpiresAt)
		actorRepo.AssertNotCalled(t, "UpdateLockState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("Success_ResetsFailureCounter", func(t *testing.T) {
		actor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Secret: "hash", IsActive: true, FailedAttempts: 2}
		actorRepo := &mockActorRepository{}
		tokenRepo := &mockTokenRepository{}
		secretService := &mockSecretService{}
		tokenService := &mockTokenService{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(actor, nil)
		actorRepo.On("UpdateLockState", ctx, actor.ID, 0, (*time.Time)(nil)).Return(nil)
		secretService.On("CompareSecret", "plain", "hash").Return(true)
		tokenService.On("GenerateToken").Return("plain-token", "token-hash", nil)
		tokenRepo.On("Create", ctx, mock.Anything).Return(nil)

		uc := newTestTokenUseCase(actorRepo, tokenRepo, secretService, tokenService, now)
		_, err := uc.Issue(ctx, input)

		require.NoError(t, err)
		actorRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownEmail", func(t *testing.T) {
		actorRepo := &mockActorRepository{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(nil, actorDomain.ErrActorNotFound)

		uc := newTestTokenUseCase(actorRepo, nil, nil, nil, now)
		_, err := uc.Issue(ctx, input)

		assert.ErrorIs(t, err, actorDomain.ErrInvalidCredentials)
	})

	t.Run("Error_WrongSecretIncrementsCounter", func(t *testing.T) {
		actor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Secret: "hash", IsActive: true}
		actorRepo := &mockActorRepository{}
		secretService := &mockSecretService{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(actor, nil)
		actorRepo.On("UpdateLockState", ctx, actor.ID, 1, (*time.Time)(nil)).Return(nil)
		secretService.On("CompareSecret", "plain", "hash").Return(false)

		uc := newTestTokenUseCase(actorRepo, nil, secretService, nil, now)
		_, err := uc.Issue(ctx, input)

		assert.ErrorIs(t, err, actorDomain.ErrInvalidCredentials)
		actorRepo.AssertExpectations(t)
	})

	t.Run("Error_MaxAttemptsLocksActor", func(t *testing.T) {
		actor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Secret: "hash", IsActive: true, FailedAttempts: 2}
		actorRepo := &mockActorRepository{}
		secretService := &mockSecretService{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(actor, nil)
		actorRepo.On("UpdateLockState", ctx, actor.ID, 0, mock.MatchedBy(func(until *time.Time) bool {
			return until != nil && until.Equal(now.Add(30*time.Minute))
		})).Return(nil)
		secretService.On("CompareSecret", "plain", "hash").Return(false)

		uc := newTestTokenUseCase(actorRepo, nil, secretService, nil, now)
		_, err := uc.Issue(ctx, input)

		assert.ErrorIs(t, err, actorDomain.ErrActorLocked)
		actorRepo.AssertExpectations(t)
	})

	t.Run("Error_LockedSkipsSecretCheck", func(t *testing.T) {
		lockedUntil := now.Add(time.Minute)
		actor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Secret: "hash", IsActive: true, LockedUntil: &lockedUntil}
		actorRepo := &mockActorRepository{}
		secretService := &mockSecretService{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(actor, nil)

		uc := newTestTokenUseCase(actorRepo, nil, secretService, nil, now)
		_, err := uc.Issue(ctx, input)

		assert.ErrorIs(t, err, actorDomain.ErrActorLocked)
		secretService.AssertNotCalled(t, "CompareSecret", mock.Anything, mock.Anything)
	})

	t.Run("Error_Inactive", func(t *testing.T) {
		actor := &actorDomain.Actor{ID: uuid.Must(uuid.NewV7()), Secret: "hash"}
		actorRepo := &mockActorRepository{}
		secretService := &mockSecretService{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(actor, nil)
		secretService.On("CompareSecret", "plain", "hash").Return(true)

		uc := newTestTokenUseCase(actorRepo, nil, secretService, nil, now)
		_, err := uc.Issue(ctx, input)

		assert.ErrorIs(t, err, actorDomain.ErrActorInactive)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		actorRepo := &mockActorRepository{}
		actorRepo.On("GetByEmail", ctx, "judge@court.example").Return(nil, errors.New("db down"))

		uc := newTestTokenUseCase(actorRepo, nil, nil, nil, now)
		_, err := uc.Issue(ctx, input)

		require.Error(t, err)
		assert.NotErrorIs(t, err, actorDomain.ErrInvalidCredentials)
	})
}

func TestTokenUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.Must(uuid.NewV7())

	t.Run("Success", func(t *testing.T) {
		actorRepo := &mockActorRepository{}
		tokenRepo := &mockTokenRepository{}
		tokenRepo.On("GetByTokenHash", ctx, "hash").
			Return(&actorDomain.Token{ActorID: actorID, ExpiresAt: now.Add(time.Minute)}, nil)
		actorRepo.On("Get", ctx, actorID).Return(&actorDomain.Actor{ID: actorID, IsActive: true}, nil)

		uc := newTestTokenUseCase(actorRepo, tokenRepo, nil, nil, now)
		actor, err := uc.Authenticate(ctx, "hash")

		require.NoError(t, err)
		assert.Equal(t, actorID, actor.ID)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		tokenRepo := &mockTokenRepository{}
		tokenRepo.On("GetByTokenHash", ctx, "hash").
			Return(&actorDomain.Token{ActorID: actorID, ExpiresAt: now}, nil)

		uc := newTestTokenUseCase(&mockActorRepository{}, tokenRepo, nil, nil, now)
		_, err := uc.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, actorDomain.ErrInvalidCredentials)
	})

	t.Run("Error_Revoked", func(t *testing.T) {
		revokedAt := now.Add(-time.Minute)
		tokenRepo := &mockTokenRepository{}
		tokenRepo.On("GetByTokenHash", ctx, "hash").
			Return(&actorDomain.Token{ActorID: actorID, ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}, nil)

		uc := newTestTokenUseCase(&mockActorRepository{}, tokenRepo, nil, nil, now)
		_, err := uc.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, actorDomain.ErrInvalidCredentials)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		tokenRepo := &mockTokenRepository{}
		tokenRepo.On("GetByTokenHash", ctx, "hash").Return(nil, actorDomain.ErrTokenNotFound)

		uc := newTestTokenUseCase(&mockActorRepository{}, tokenRepo, nil, nil, now)
		_, err := uc.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, actorDomain.ErrInvalidCredentials)
	})

	t.Run("Error_InactiveActor", func(t *testing.T) {
		actorRepo := &mockActorRepository{}
		tokenRepo := &mockTokenRepository{}
		tokenRepo.On("GetByTokenHash", ctx, "hash").
			Return(&actorDomain.Token{ActorID: actorID, ExpiresAt: now.Add(time.Minute)}, nil)
		actorRepo.On("Get", ctx, actorID).Return(&actorDomain.Actor{ID: actorID}, nil)

		uc := newTestTokenUseCase(actorRepo, tokenRepo, nil, nil, now)
		_, err := uc.Authenticate(ctx, "hash")

		assert.ErrorIs(t, err, actorDomain.ErrActorInactive)
	})
}
