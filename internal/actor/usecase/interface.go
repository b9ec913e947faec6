// Package usecase implements actor management and bearer token authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
)

// ActorRepository defines persistence operations for actors.
// Implementations must support transaction-aware operations via context propagation.
type ActorRepository interface {
	// Create stores a new actor. Returns ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, actor *actorDomain.Actor) error

	// Update modifies an existing actor. Returns ErrEmailTaken on a duplicate email.
	Update(ctx context.Context, actor *actorDomain.Actor) error

	// Get retrieves an actor by ID. Returns ErrActorNotFound if not found.
	Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error)

	// GetByEmail retrieves an actor by email. Returns ErrActorNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*actorDomain.Actor, error)

	// List returns actors in creation order. Names are stored sealed and cannot be sorted on.
	List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error)

	// ListActiveByRole returns every active actor with the role.
	ListActiveByRole(ctx context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error)

	// UpdateLockState persists the failed login counter and lock deadline.
	UpdateLockState(ctx context.Context, actorID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
}

// TokenRepository defines persistence operations for bearer tokens.
// Implementations must support transaction-aware operations via context propagation.
type TokenRepository interface {
	Create(ctx context.Context, token *actorDomain.Token) error

	// GetByTokenHash retrieves a token by its hash. Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*actorDomain.Token, error)

	// RevokeByActor revokes every unrevoked token of the actor.
	RevokeByActor(ctx context.Context, actorID uuid.UUID, revokedAt time.Time) error
}

// ActorUseCase manages actors.
type ActorUseCase interface {
	// Create registers an actor with a generated secret. The plain secret is returned once.
	Create(ctx context.Context, input *actorDomain.CreateActorInput) (*actorDomain.CreateActorOutput, error)

	Update(ctx context.Context, actorID uuid.UUID, input *actorDomain.UpdateActorInput) (*actorDomain.Actor, error)

	Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error)

	List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error)

	// Deactivate marks the actor inactive and revokes its tokens in one transaction.
	Deactivate(ctx context.Context, actorID uuid.UUID) error

	// Unlock clears the lockout state.
	Unlock(ctx context.Context, actorID uuid.UUID) error

	// ListActiveByRole returns active actors with the role, e.g. the judges eligible for
	// assignment.
	ListActiveByRole(ctx context.Context, role actorDomain.Role) ([]*actorDomain.Actor, error)
}

// TokenUseCase issues and validates bearer tokens.
type TokenUseCase interface {
	// Issue exchanges an email and secret for a bearer token. Repeated failures lock the
	// actor for the configured duration.
	Issue(ctx context.Context, input *actorDomain.IssueTokenInput) (*actorDomain.IssueTokenOutput, error)

	// Authenticate resolves a token hash to its active actor.
	Authenticate(ctx context.Context, tokenHash string) (*actorDomain.Actor, error)
}
