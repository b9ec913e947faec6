package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	actorService "github.com/caseguard/caseguard/internal/actor/service"
	"github.com/caseguard/caseguard/internal/database"
)

type actorUseCase struct {
	txManager     database.TxManager
	actorRepo     ActorRepository
	tokenRepo     TokenRepository
	secretService actorService.SecretService
}

func (a *actorUseCase) Create(
	ctx context.Context,
	input *actorDomain.CreateActorInput,
) (*actorDomain.CreateActorOutput, error) {
	if !input.Role.IsValid() {
		return nil, actorDomain.ErrInvalidRole
	}

	plainSecret, hashedSecret, err := a.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := &actorDomain.Actor{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Role:      input.Role,
		Secret:    hashedSecret,
		IsActive:  input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.actorRepo.Create(ctx, actor); err != nil {
		return nil, err
	}

	return &actorDomain.CreateActorOutput{ID: actor.ID, PlainSecret: plainSecret}, nil
}

func (a *actorUseCase) Update(
	ctx context.Context,
	actorID uuid.UUID,
	input *actorDomain.UpdateActorInput,
) (*actorDomain.Actor, error) {
	if !input.Role.IsValid() {
		return nil, actorDomain.ErrInvalidRole
	}

	actor, err := a.actorRepo.Get(ctx, actorID)
	if err != nil {
		return nil, err
	}

	actor.Name = input.Name
	actor.Email = strings.ToLower(strings.TrimSpace(input.Email))
	actor.Role = input.Role
	actor.IsActive = input.IsActive
	actor.UpdatedAt = time.Now().UTC()

	if err := a.actorRepo.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (a *actorUseCase) Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	return a.actorRepo.Get(ctx, actorID)
}

func (a *actorUseCase) List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error) {
	return a.actorRepo.List(ctx, offset, limit)
}

func (a *actorUseCase) Deactivate(ctx context.Context, actorID uuid.UUID) error {
	return a.txManager.WithTx(ctx, func(ctx context.Context) error {
		actor, err := a.actorRepo.Get(ctx, actorID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		actor.IsActive = false
		actor.UpdatedAt = now
		if err := a.actorRepo.Update(ctx, actor); err != nil {
			return err
		}
		return a.tokenRepo.RevokeByActor(ctx, actorID, now)
	})
}

func (a *actorUseCase) Unlock(ctx context.Context, actorID uuid.UUID) error {
	if _, err := a.actorRepo.Get(ctx, actorID); err != nil {
		return err
	}
	return a.actorRepo.UpdateLockState(ctx, actorID, 0, nil)
}

func (a *actorUseCase) ListActiveByRole(ctx context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error) {
	return a.actorRepo.ListActiveByRole(ctx, role)
}

// NewActorUseCase creates a new ActorUseCase with the provided dependencies.
func NewActorUseCase(
	txManager database.TxManager,
	actorRepo ActorRepository,
	tokenRepo TokenRepository,
	secretService actorService.SecretService,
) ActorUseCase {
	return &actorUseCase{
		txManager:     txManager,
		actorRepo:     actorRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
	}
}
