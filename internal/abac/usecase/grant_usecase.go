package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
)

type grantUseCase struct {
	grantRepo     GrantRepository
	attributeRepo AttributeRepository
}

func (g *grantUseCase) Grant(ctx context.Context, input *abacDomain.GrantInput) (*abacDomain.Grant, error) {
	now := time.Now().UTC()
	if input.ExpiresAt != nil && !input.ExpiresAt.After(now) {
		return nil, abacDomain.ErrGrantExpiryInPast
	}

	if _, err := g.attributeRepo.Get(ctx, input.AttributeID); err != nil {
		return nil, err
	}

	grant := &abacDomain.Grant{
		ID:          uuid.Must(uuid.NewV7()),
		ActorID:     input.ActorID,
		AttributeID: input.AttributeID,
		GrantedBy:   input.GrantedBy,
		GrantedAt:   now,
		ExpiresAt:   input.ExpiresAt,
		Reason:      input.Reason,
	}
	if err := g.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

func (g *grantUseCase) Revoke(ctx context.Context, actorID, attributeID uuid.UUID) error {
	return g.grantRepo.Delete(ctx, actorID, attributeID)
}

func (g *grantUseCase) ListByActor(ctx context.Context, actorID uuid.UUID) ([]abacDomain.HeldAttribute, error) {
	return g.grantRepo.ListHeld(ctx, actorID)
}

// NewGrantUseCase creates a new GrantUseCase.
func NewGrantUseCase(grantRepo GrantRepository, attributeRepo AttributeRepository) GrantUseCase {
	return &grantUseCase{grantRepo: grantRepo, attributeRepo: attributeRepo}
}
