package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
	"github.com/caseguard/caseguard/internal/metrics"
)

const metricsDomain = "actor"

// actorUseCaseWithMetrics decorates ActorUseCase with metrics instrumentation.
type actorUseCaseWithMetrics struct {
	next    ActorUseCase
	metrics metrics.BusinessMetrics
}

// NewActorUseCaseWithMetrics wraps an ActorUseCase with metrics recording.
func NewActorUseCaseWithMetrics(next ActorUseCase, m metrics.BusinessMetrics) ActorUseCase {
	return &actorUseCaseWithMetrics{next: next, metrics: m}
}

func (a *actorUseCaseWithMetrics) Create(
	ctx context.Context,
	input *actorDomain.CreateActorInput,
) (*actorDomain.CreateActorOutput, error) {
	start := time.Now()
	output, err := a.next.Create(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "actor_create", start, err)
	return output, err
}

func (a *actorUseCaseWithMetrics) Update(
	ctx context.Context,
	actorID uuid.UUID,
	input *actorDomain.UpdateActorInput,
) (*actorDomain.Actor, error) {
	start := time.Now()
	actor, err := a.next.Update(ctx, actorID, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "actor_update", start, err)
	return actor, err
}

func (a *actorUseCaseWithMetrics) Get(ctx context.Context, actorID uuid.UUID) (*actorDomain.Actor, error) {
	start := time.Now()
	actor, err := a.next.Get(ctx, actorID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "actor_get", start, err)
	return actor, err
}

func (a *actorUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*actorDomain.Actor, error) {
	start := time.Now()
	actors, err := a.next.List(ctx, offset, limit)
	metrics.Observe(ctx, a.metrics, metricsDomain, "actor_list", start, err)
	return actors, err
}

func (a *actorUseCaseWithMetrics) Deactivate(ctx context.Context, actorID uuid.UUID) error {
	start := time.Now()
	err := a.next.Deactivate(ctx, actorID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "actor_deactivate", start, err)
	return err
}

func (a *actorUseCaseWithMetrics) Unlock(ctx context.Context, actorID uuid.UUID) error {
	start := time.Now()
	err := a.next.Unlock(ctx, actorID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "actor_unlock", start, err)
	return err
}

func (a *actorUseCaseWithMetrics) ListActiveByRole(
	ctx context.Context,
	role actorDomain.Role,
) ([]*actorDomain.Actor, error) {
	return a.next.ListActiveByRole(ctx, role)
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(next TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{next: next, metrics: m}
}

func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *actorDomain.IssueTokenInput,
) (*actorDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, input)
	metrics.Observe(ctx, t.metrics, metricsDomain, "token_issue", start, err)
	return output, err
}

func (t *tokenUseCaseWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*actorDomain.Actor, error) {
	start := time.Now()
	actor, err := t.next.Authenticate(ctx, tokenHash)
	metrics.Observe(ctx, t.metrics, metricsDomain, "token_authenticate", start, err)
	return actor, err
}
