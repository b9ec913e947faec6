package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caseguard/caseguard/internal/metrics"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

const metricsDomain = "vault"

type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(next VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{next: next, metrics: m}
}

func (v *vaultUseCaseWithMetrics) CreateMapping(
	ctx context.Context,
	userID, caseID, createdBy uuid.UUID,
) (string, error) {
	start := time.Now()
	pseudonym, err := v.next.CreateMapping(ctx, userID, caseID, createdBy)
	metrics.Observe(ctx, v.metrics, metricsDomain, "mapping_create", start, err)
	return pseudonym, err
}

func (v *vaultUseCaseWithMetrics) ResolveIdentity(
	ctx context.Context,
	pseudonym string,
	requestedBy uuid.UUID,
) (*vaultDomain.ResolvedIdentity, error) {
	start := time.Now()
	resolved, err := v.next.ResolveIdentity(ctx, pseudonym, requestedBy)
	metrics.Observe(ctx, v.metrics, metricsDomain, "identity_resolve", start, err)
	return resolved, err
}

func (v *vaultUseCaseWithMetrics) GetUserPseudonyms(
	ctx context.Context,
	userID uuid.UUID,
) ([]vaultDomain.CasePseudonym, error) {
	start := time.Now()
	pseudonyms, err := v.next.GetUserPseudonyms(ctx, userID)
	metrics.Observe(ctx, v.metrics, metricsDomain, "pseudonym_list", start, err)
	return pseudonyms, err
}

func (v *vaultUseCaseWithMetrics) VerifyAccess(
	ctx context.Context,
	userID, caseID uuid.UUID,
) (*vaultDomain.AccessCheck, error) {
	start := time.Now()
	check, err := v.next.VerifyAccess(ctx, userID, caseID)
	metrics.Observe(ctx, v.metrics, metricsDomain, "access_verify", start, err)
	return check, err
}

func (v *vaultUseCaseWithMetrics) RevokeMapping(ctx context.Context, pseudonym string, revokedBy uuid.UUID) error {
	start := time.Now()
	err := v.next.RevokeMapping(ctx, pseudonym, revokedBy)
	metrics.Observe(ctx, v.metrics, metricsDomain, "mapping_revoke", start, err)
	return err
}

func (v *vaultUseCaseWithMetrics) ListAccessLogs(
	ctx context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	start := time.Now()
	entries, err := v.next.ListAccessLogs(ctx, filter, offset, limit)
	metrics.Observe(ctx, v.metrics, metricsDomain, "access_log_list", start, err)
	return entries, err
}

func (v *vaultUseCaseWithMetrics) VerifyAccessLogs(ctx context.Context, offset, limit int) (*VerifyReport, error) {
	start := time.Now()
	report, err := v.next.VerifyAccessLogs(ctx, offset, limit)
	metrics.Observe(ctx, v.metrics, metricsDomain, "access_log_verify", start, err)
	return report, err
}
