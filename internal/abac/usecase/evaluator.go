package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	abacDomain "github.com/caseguard/caseguard/internal/abac/domain"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

type evaluator struct {
	grantRepo  GrantRepository
	policyRepo PolicyRepository
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func (e *evaluator) load(
	ctx context.Context,
	actorID uuid.UUID,
	withPolicies bool,
) ([]abacDomain.HeldAttribute, []abacDomain.SecurityPolicy, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	held, err := e.grantRepo.ListHeld(ctx, actorID)
	if err != nil {
		return nil, nil, apperrors.Wrapf(abacDomain.ErrEvaluationFailed, "load grants: %v", err)
	}
	if !withPolicies {
		return held, nil, nil
	}

	policies, err := e.policyRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrapf(abacDomain.ErrEvaluationFailed, "load policies: %v", err)
	}
	return held, policies, nil
}

// Authorize loads the actor's grants and the active policies and evaluates the request.
// Any failure to load is a denial.
func (e *evaluator) Authorize(
	ctx context.Context,
	actorID uuid.UUID,
	req abacDomain.Request,
) (abacDomain.Decision, error) {
	if !req.Action.IsValid() {
		return abacDomain.Deny(abacDomain.ReasonUnknownAction), nil
	}

	held, policies, err := e.load(ctx, actorID, true)
	if err != nil {
		e.logger.ErrorContext(ctx, "authorization evaluation failed",
			slog.String("actor_id", actorID.String()),
			slog.String("action", string(req.Action)),
			slog.Any("error", err),
		)
		return abacDomain.Deny(abacDomain.ReasonEvaluationFailed), err
	}

	decision := abacDomain.Evaluate(e.now(), held, policies, req)
	if !decision.Allowed {
		e.logger.DebugContext(ctx, "authorization denied",
			slog.String("actor_id", actorID.String()),
			slog.String("action", string(req.Action)),
			slog.String("resource_type", req.ResourceType),
			slog.String("reason", decision.Reason),
		)
	}
	return decision, nil
}

func (e *evaluator) HasClearance(ctx context.Context, actorID uuid.UUID, level int) (bool, error) {
	held, _, err := e.load(ctx, actorID, false)
	if err != nil {
		return false, err
	}
	return abacDomain.HasClearance(e.now(), held, level), nil
}

// NewEvaluator creates the policy decision point. timeout bounds each evaluation's store
// round trips; zero disables it.
func NewEvaluator(
	grantRepo GrantRepository,
	policyRepo PolicyRepository,
	timeout time.Duration,
	logger *slog.Logger,
) Evaluator {
	return &evaluator{
		grantRepo:  grantRepo,
		policyRepo: policyRepo,
		timeout:    timeout,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}
