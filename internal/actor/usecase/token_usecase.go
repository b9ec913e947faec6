package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	actorService "github.com/caseguard/caseguard/internal/actor/service"
	"github.com/caseguard/caseguard/internal/config"
)

type tokenUseCase struct {
	config        *config.Config
	actorRepo     ActorRepository
	tokenRepo     TokenRepository
	secretService actorService.SecretService
	tokenService  actorService.TokenService
	now           func() time.Time
}

// Issue verifies the actor's secret and stores a new token hash.
//
// Unknown emails and wrong secrets both yield ErrInvalidCredentials. A locked actor gets
// ErrActorLocked without its secret being checked, so a locked account cannot be used as
// an oracle.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *actorDomain.IssueTokenInput,
) (*actorDomain.IssueTokenOutput, error) {
	actor, err := t.actorRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, actorDomain.ErrActorNotFound) {
			return nil, actorDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := t.now()
	if actor.IsLockedAt(now) {
		return nil, actorDomain.ErrActorLocked
	}

	if !t.secretService.CompareSecret(input.Secret, actor.Secret) {
		return nil, t.recordFailure(ctx, actor, now)
	}

	if !actor.IsActive {
		return nil, actorDomain.ErrActorInactive
	}

	if actor.FailedAttempts > 0 || actor.LockedUntil != nil {
		if err := t.actorRepo.UpdateLockState(ctx, actor.ID, 0, nil); err != nil {
			return nil, err
		}
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	token := &actorDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ActorID:   actor.ID,
		ExpiresAt: now.Add(t.config.AuthTokenExpiration),
		CreatedAt: now,
	}
	if err := t.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	return &actorDomain.IssueTokenOutput{PlainToken: plainToken, ExpiresAt: token.ExpiresAt}, nil
}

// recordFailure bumps the failure counter and locks the actor once the configured maximum
// is reached. Lockout is disabled when LockoutMaxAttempts is zero.
func (t *tokenUseCase) recordFailure(ctx context.Context, actor *actorDomain.Actor, now time.Time) error {
	if t.config.LockoutMaxAttempts <= 0 {
		return actorDomain.ErrInvalidCredentials
	}

	attempts := actor.FailedAttempts + 1
	var lockedUntil *time.Time
	if attempts >= t.config.LockoutMaxAttempts {
		until := now.Add(t.config.LockoutDuration)
		lockedUntil = &until
		attempts = 0
	}

	if err := t.actorRepo.UpdateLockState(ctx, actor.ID, attempts, lockedUntil); err != nil {
		return err
	}
	if lockedUntil != nil {
		return actorDomain.ErrActorLocked
	}
	return actorDomain.ErrInvalidCredentials
}

func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*actorDomain.Actor, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, actorDomain.ErrTokenNotFound) {
			return nil, actorDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !token.IsUsableAt(t.now()) {
		return nil, actorDomain.ErrInvalidCredentials
	}

	actor, err := t.actorRepo.Get(ctx, token.ActorID)
	if err != nil {
		if errors.Is(err, actorDomain.ErrActorNotFound) {
			return nil, actorDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !actor.IsActive {
		return nil, actorDomain.ErrActorInactive
	}
	return actor, nil
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(
	config *config.Config,
	actorRepo ActorRepository,
	tokenRepo TokenRepository,
	secretService actorService.SecretService,
	tokenService actorService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		config:        config,
		actorRepo:     actorRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
		now:           func() time.Time { return time.Now().UTC() },
	}
}
