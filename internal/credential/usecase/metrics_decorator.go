package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	"github.com/caseguard/caseguard/internal/metrics"
)

const metricsDomain = "credential"

type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(next CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{next: next, metrics: m}
}

func (c *credentialUseCaseWithMetrics) Generate(
	ctx context.Context,
	caseID uuid.UUID,
	pseudonym string,
) (*credentialDomain.IssuedCredential, error) {
	start := time.Now()
	issued, err := c.next.Generate(ctx, caseID, pseudonym)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_generate", start, err)
	return issued, err
}

func (c *credentialUseCaseWithMetrics) ValidateToken(
	ctx context.Context,
	token string,
) (*credentialDomain.TokenInfo, error) {
	start := time.Now()
	info, err := c.next.ValidateToken(ctx, token)
	metrics.Observe(ctx, c.metrics, metricsDomain, "token_validate", start, err)
	return info, err
}

func (c *credentialUseCaseWithMetrics) ValidatePassword(
	ctx context.Context,
	caseID uuid.UUID,
	password string,
) (string, error) {
	start := time.Now()
	token, err := c.next.ValidatePassword(ctx, caseID, password)
	metrics.Observe(ctx, c.metrics, metricsDomain, "password_validate", start, err)
	return token, err
}

func (c *credentialUseCaseWithMetrics) MarkAsUsed(ctx context.Context, token string) error {
	start := time.Now()
	err := c.next.MarkAsUsed(ctx, token)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_consume", start, err)
	return err
}

func (c *credentialUseCaseWithMetrics) CleanupExpired(ctx context.Context, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := c.next.CleanupExpired(ctx, dryRun)
	metrics.Observe(ctx, c.metrics, metricsDomain, "credential_cleanup", start, err)
	return count, err
}
