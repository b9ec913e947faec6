// Package usecase implements the case registry: creating cases and reading them back.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
)

// CaseRepository persists cases in the case store.
type CaseRepository interface {
	Create(ctx context.Context, c *casesDomain.Case) error
	Get(ctx context.Context, caseID uuid.UUID) (*casesDomain.Case, error)
	UpdateStatus(ctx context.Context, caseID uuid.UUID, status casesDomain.Status, updatedAt time.Time) error
}

// CaseUseCase defines the case registry operations.
type CaseUseCase interface {
	// Create registers a pending case. A classified case is refused with a DeniedError unless
	// the creator holds the clearance its classification requires.
	Create(ctx context.Context, input casesDomain.CreateCaseInput) (*casesDomain.Case, error)

	// Get returns the case once viewerID is authorized for case.view at the case's
	// classification.
	Get(ctx context.Context, viewerID, caseID uuid.UUID) (*casesDomain.Case, error)
}
