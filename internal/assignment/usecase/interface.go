// Package usecase implements case assignment as an explicit saga: every step runs only when
// the previous one succeeded, and a failed step undoes the completed ones in reverse order.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
)

// AssignmentRepository persists case assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *assignmentDomain.Assignment) error
	GetByCase(ctx context.Context, caseID uuid.UUID) (*assignmentDomain.Assignment, error)

	// Delete removes an assignment. Returns ErrAssignmentNotFound if it does not exist.
	Delete(ctx context.Context, assignmentID uuid.UUID) error
}

// CaseRepository is the part of the case registry the saga reads and updates.
type CaseRepository interface {
	Get(ctx context.Context, caseID uuid.UUID) (*casesDomain.Case, error)
	UpdateStatus(ctx context.Context, caseID uuid.UUID, status casesDomain.Status, updatedAt time.Time) error
}

// ActorDirectory looks up assignees.
type ActorDirectory interface {
	Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error)
	ListActiveByRole(ctx context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error)
}

// AssignmentUseCase assigns cases.
type AssignmentUseCase interface {
	// Assign binds the case to an assignee pseudonym and issues the assignee's ephemeral
	// credential. A second assignment of the same case fails with ErrAlreadyAssigned.
	Assign(ctx context.Context, input assignmentDomain.AssignInput) (*assignmentDomain.Result, error)
}
