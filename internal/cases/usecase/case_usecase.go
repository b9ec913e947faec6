package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	abacUseCase "github.com/caseguard/caseguard/internal/abac/usecase"
	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
)

type caseUseCase struct {
	caseRepo  CaseRepository
	evaluator abacUseCase.Evaluator
	now       func() time.Time
}

func (c *caseUseCase) Create(
	ctx context.Context,
	input casesDomain.CreateCaseInput,
) (*casesDomain.Case, error) {
	if !input.Classification.IsValid() {
		return nil, casesDomain.ErrInvalidClassification
	}

	if required := input.Classification.RequiredClearance(); required > 0 {
		cleared, err := c.evaluator.HasClearance(ctx, input.CreatedBy, required)
		if err != nil {
			return nil, err
		}
		if !cleared {
			return nil, &abacDomain.DeniedError{
				Action: abacDomain.ActionCaseCreate,
				Reason: abacDomain.ReasonInsufficientClearance,
			}
		}
	}

	now := c.now()
	newCase := &casesDomain.Case{
		ID:             uuid.Must(uuid.NewV7()),
		Number:         strings.TrimSpace(input.Number),
		Title:          strings.TrimSpace(input.Title),
		Classification: input.Classification,
		Status:         casesDomain.StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := c.caseRepo.Create(ctx, newCase); err != nil {
		return nil, err
	}
	return newCase, nil
}

func (c *caseUseCase) Get(ctx context.Context, viewerID, caseID uuid.UUID) (*casesDomain.Case, error) {
	found, err := c.caseRepo.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	action := abacDomain.ActionCaseView
	decision, err := c.evaluator.Authorize(ctx, viewerID, abacDomain.Request{
		Action:            action,
		ResourceType:      "case",
		ResourceID:        caseID.String(),
		RequiredClearance: found.Classification.RequiredClearance(),
	})
	if err != nil {
		return nil, err
	}
	if err := decision.Err(action); err != nil {
		return nil, err
	}
	return found, nil
}

// NewCaseUseCase creates a CaseUseCase.
func NewCaseUseCase(caseRepo CaseRepository, evaluator abacUseCase.Evaluator) CaseUseCase {
	return &caseUseCase{
		caseRepo:  caseRepo,
		evaluator: evaluator,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}
