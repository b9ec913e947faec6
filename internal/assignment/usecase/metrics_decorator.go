package usecase

import (
	"context"
	"time"

	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
	"github.com/caseguard/caseguard/internal/metrics"
)

const metricsDomain = "assignment"

type assignmentUseCaseWithMetrics struct {
	next    AssignmentUseCase
	metrics metrics.BusinessMetrics
}

// NewAssignmentUseCaseWithMetrics wraps an AssignmentUseCase with metrics recording.
func NewAssignmentUseCaseWithMetrics(next AssignmentUseCase, m metrics.BusinessMetrics) AssignmentUseCase {
	return &assignmentUseCaseWithMetrics{next: next, metrics: m}
}

func (a *assignmentUseCaseWithMetrics) Assign(
	ctx context.Context,
	input assignmentDomain.AssignInput,
) (*assignmentDomain.Result, error) {
	start := time.Now()
	result, err := a.next.Assign(ctx, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "case_assign", start, err)
	return result, err
}
