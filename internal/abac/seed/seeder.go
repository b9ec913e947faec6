package seed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/database"
)

// ActorLister lists the actors that receive role defaults.
type ActorLister interface {
	ListActiveByRole(ctx context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error)
}

// Result counts what an Apply call created.
type Result struct {
	AttributesCreated int
	PoliciesCreated   int
	RulesCreated      int
	GrantsCreated     int
}

// Seeder applies a Catalog. Existing attributes and policies, matched by name, are left as
// they are, so running it twice changes nothing.
type Seeder struct {
	txManager     database.TxManager
	attributeRepo abacUseCase.AttributeRepository
	policyRepo    abacUseCase.PolicyRepository
	grantRepo     abacUseCase.GrantRepository
	actors        ActorLister
	logger        *slog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	txManager database.TxManager,
	attributeRepo abacUseCase.AttributeRepository,
	policyRepo abacUseCase.PolicyRepository,
	grantRepo abacUseCase.GrantRepository,
	actors ActorLister,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		txManager:     txManager,
		attributeRepo: attributeRepo,
		policyRepo:    policyRepo,
		grantRepo:     grantRepo,
		actors:        actors,
		logger:        logger,
	}
}

// Apply creates missing attributes and policies, then grants every active actor the
// defaults of its role that it does not already hold. grantedBy is recorded as the creator.
func (s *Seeder) Apply(ctx context.Context, catalog *Catalog, grantedBy uuid.UUID) (Result, error) {
	var result Result
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		result = Result{}
		now := time.Now().UTC()

		byName := make(map[string]uuid.UUID, len(catalog.Attributes))
		for _, seed := range catalog.Attributes {
			id, created, err := s.ensureAttribute(ctx, seed, now)
			if err != nil {
				return err
			}
			byName[seed.Name] = id
			if created {
				result.AttributesCreated++
			}
		}

		for _, seed := range catalog.Policies {
			rules, created, err := s.ensurePolicy(ctx, seed, byName, grantedBy, now)
			if err != nil {
				return err
			}
			if created {
				result.PoliciesCreated++
				result.RulesCreated += rules
			}
		}

		for _, role := range actorDomain.Roles() {
			actors, err := s.actors.ListActiveByRole(ctx, role)
			if err != nil {
				return err
			}
			for _, actor := range actors {
				granted, err := s.grantDefaults(ctx, catalog, actor, byName, grantedBy, now)
				if err != nil {
					return err
				}
				result.GrantsCreated += granted
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.InfoContext(ctx, "abac catalogue applied",
		slog.Int("attributes_created", result.AttributesCreated),
		slog.Int("policies_created", result.PoliciesCreated),
		slog.Int("rules_created", result.RulesCreated),
		slog.Int("grants_created", result.GrantsCreated))
	return result, nil
}

// GrantRoleDefaults grants a single actor the defaults of its role. It is used right after an
// actor is created.
func (s *Seeder) GrantRoleDefaults(
	ctx context.Context,
	catalog *Catalog,
	actor *actorDomain.Actor,
	grantedBy uuid.UUID,
) (int, error) {
	var granted int
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		byName := make(map[string]uuid.UUID)
		for _, name := range catalog.RoleDefaults[actor.Role] {
			attribute, err := s.attributeRepo.GetByName(ctx, name)
			if err != nil {
				return err
			}
			byName[name] = attribute.ID
		}

		var err error
		granted, err = s.grantDefaults(ctx, catalog, actor, byName, grantedBy, time.Now().UTC())
		return err
	})
	return granted, err
}

func (s *Seeder) ensureAttribute(ctx context.Context, seed AttributeSeed, now time.Time) (uuid.UUID, bool, error) {
	existing, err := s.attributeRepo.GetByName(ctx, seed.Name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, abacDomain.ErrAttributeNotFound) {
		return uuid.Nil, false, err
	}

	attribute := &abacDomain.Attribute{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        seed.Name,
		Category:    seed.Category,
		Description: seed.Description,
		Level:       seed.Level,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.attributeRepo.Create(ctx, attribute); err != nil {
		return uuid.Nil, false, err
	}
	return attribute.ID, true, nil
}

func (s *Seeder) ensurePolicy(
	ctx context.Context,
	seed PolicySeed,
	attributes map[string]uuid.UUID,
	createdBy uuid.UUID,
	now time.Time,
) (int, bool, error) {
	_, err := s.policyRepo.GetByName(ctx, seed.Name)
	if err == nil {
		return 0, false, nil
	}
	if !errors.Is(err, abacDomain.ErrPolicyNotFound) {
		return 0, false, err
	}

	policy := &abacDomain.SecurityPolicy{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        seed.Name,
		Description: seed.Description,
		Active:      seed.Active,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.policyRepo.Create(ctx, policy); err != nil {
		return 0, false, err
	}

	for _, r := range seed.Rules {
		rule := &abacDomain.PolicyRule{
			ID:          uuid.Must(uuid.NewV7()),
			PolicyID:    policy.ID,
			AttributeID: attributes[r.Attribute],
			Operator:    r.Operator,
			Value:       r.Value,
			Action:      r.Action,
			CreatedAt:   now,
		}
		if err := s.policyRepo.CreateRule(ctx, rule); err != nil {
			return 0, false, err
		}
	}
	return len(seed.Rules), true, nil
}

func (s *Seeder) grantDefaults(
	ctx context.Context,
	catalog *Catalog,
	actor *actorDomain.Actor,
	attributes map[string]uuid.UUID,
	grantedBy uuid.UUID,
	now time.Time,
) (int, error) {
	defaults := catalog.RoleDefaults[actor.Role]
	if len(defaults) == 0 {
		return 0, nil
	}

	held, err := s.grantRepo.ListHeld(ctx, actor.ID)
	if err != nil {
		return 0, err
	}
	holds := make(map[uuid.UUID]struct{}, len(held))
	for _, h := range held {
		holds[h.Attribute.ID] = struct{}{}
	}

	granted := 0
	for _, name := range defaults {
		attributeID := attributes[name]
		if _, ok := holds[attributeID]; ok {
			continue
		}
		grant := &abacDomain.Grant{
			ID:          uuid.Must(uuid.NewV7()),
			ActorID:     actor.ID,
			AttributeID: attributeID,
			GrantedBy:   grantedBy,
			GrantedAt:   now,
			Reason:      "role default: " + string(actor.Role),
		}
		if err := s.grantRepo.Upsert(ctx, grant); err != nil {
			return 0, err
		}
		granted++
	}
	return granted, nil
}
