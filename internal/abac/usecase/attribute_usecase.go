package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	"github.com/caseguard/caseguard/internal/database"
)

type attributeUseCase struct {
	txManager     database.TxManager
	attributeRepo AttributeRepository
	policyRepo    PolicyRepository
	grantRepo     GrantRepository
	logger        *slog.Logger
}

func validateAttribute(category abacDomain.Category, level int) error {
	if !category.IsValid() {
		return abacDomain.ErrInvalidCategory
	}
	if level < abacDomain.MinLevel || level > abacDomain.MaxLevel {
		return abacDomain.ErrInvalidLevel
	}
	return nil
}

func (a *attributeUseCase) Create(
	ctx context.Context,
	input *abacDomain.CreateAttributeInput,
) (*abacDomain.Attribute, error) {
	if err := validateAttribute(input.Category, input.Level); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	attribute := &abacDomain.Attribute{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Level:       input.Level,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := a.attributeRepo.Create(ctx, attribute); err != nil {
		return nil, err
	}
	return attribute, nil
}

func (a *attributeUseCase) Update(
	ctx context.Context,
	attributeID uuid.UUID,
	input *abacDomain.UpdateAttributeInput,
) (*abacDomain.Attribute, error) {
	if err := validateAttribute(input.Category, input.Level); err != nil {
		return nil, err
	}

	var attribute *abacDomain.Attribute
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		current, err := a.attributeRepo.Get(ctx, attributeID)
		if err != nil {
			return err
		}

		if current.Category != input.Category || current.Level != input.Level {
			inUse, err := a.inUse(ctx, attributeID)
			if err != nil {
				return err
			}
			if inUse {
				return abacDomain.ErrAttributeInUse
			}
		}

		current.Name = input.Name
		current.Category = input.Category
		current.Description = input.Description
		current.Level = input.Level
		current.UpdatedAt = time.Now().UTC()

		if err := a.attributeRepo.Update(ctx, current); err != nil {
			return err
		}
		attribute = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return attribute, nil
}

func (a *attributeUseCase) inUse(ctx context.Context, attributeID uuid.UUID) (bool, error) {
	rules, err := a.policyRepo.CountRulesByAttribute(ctx, attributeID)
	if err != nil {
		return false, err
	}
	if rules > 0 {
		return true, nil
	}
	grants, err := a.grantRepo.CountByAttribute(ctx, attributeID)
	if err != nil {
		return false, err
	}
	return grants > 0, nil
}

// Delete cascades to rules and grants. Both counts are logged since the deletion silently
// changes what every affected actor may do.
func (a *attributeUseCase) Delete(ctx context.Context, attributeID uuid.UUID) error {
	var attribute *abacDomain.Attribute
	var rules, grants int64

	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		if attribute, err = a.attributeRepo.Get(ctx, attributeID); err != nil {
			return err
		}
		if rules, err = a.policyRepo.DeleteRulesByAttribute(ctx, attributeID); err != nil {
			return err
		}
		if grants, err = a.grantRepo.DeleteByAttribute(ctx, attributeID); err != nil {
			return err
		}
		return a.attributeRepo.Delete(ctx, attributeID)
	})
	if err != nil {
		return err
	}

	if rules > 0 || grants > 0 {
		a.logger.WarnContext(ctx, "attribute deleted with references",
			slog.String("attribute_id", attributeID.String()),
			slog.String("attribute_name", attribute.Name),
			slog.Int64("rules_removed", rules),
			slog.Int64("grants_removed", grants),
		)
	}
	return nil
}

func (a *attributeUseCase) Get(ctx context.Context, attributeID uuid.UUID) (*abacDomain.Attribute, error) {
	return a.attributeRepo.Get(ctx, attributeID)
}

func (a *attributeUseCase) List(ctx context.Context, offset, limit int) ([]*abacDomain.Attribute, error) {
	return a.attributeRepo.List(ctx, offset, limit)
}

// NewAttributeUseCase creates a new AttributeUseCase with the provided dependencies.
func NewAttributeUseCase(
	txManager database.TxManager,
	attributeRepo AttributeRepository,
	policyRepo PolicyRepository,
	grantRepo GrantRepository,
	logger *slog.Logger,
) AttributeUseCase {
	return &attributeUseCase{
		txManager:     txManager,
		attributeRepo: attributeRepo,
		policyRepo:    policyRepo,
		grantRepo:     grantRepo,
		logger:        logger,
	}
}
