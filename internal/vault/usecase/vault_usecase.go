package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/caseguard/caseguard/internal/database"
	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
	vaultService "github.com/caseguard/caseguard/internal/vault/service"
)

// maxPseudonymAttempts bounds retries after pseudonym collisions.
const maxPseudonymAttempts = 5

type vaultUseCase struct {
	txManager     database.TxManager
	mappingRepo   MappingRepository
	accessLogRepo AccessLogRepository
	signer        vaultService.AccessLogSigner
	newPseudonym  func() (string, error)
	now           func() time.Time
}

func (v *vaultUseCase) CreateMapping(ctx context.Context, userID, caseID, createdBy uuid.UUID) (string, error) {
	for range maxPseudonymAttempts {
		pseudonym, err := v.createMapping(ctx, userID, caseID, createdBy)
		switch {
		case err == nil:
			return pseudonym, nil
		case errors.Is(err, vaultDomain.ErrMappingExists):
			// Another writer won the (user, case) race; its transaction is committed by now.
			existing, err := v.mappingRepo.GetByUserAndCase(ctx, userID, caseID)
			if err != nil {
				return "", err
			}
			return existing.Pseudonym, nil
		case errors.Is(err, vaultDomain.ErrPseudonymCollision):
			continue
		default:
			return "", err
		}
	}
	return "", vaultDomain.ErrPseudonymExhausted
}

// createMapping runs one lookup-or-insert attempt in its own transaction. A unique violation
// aborts the transaction, so recovery happens in the caller.
func (v *vaultUseCase) createMapping(ctx context.Context, userID, caseID, createdBy uuid.UUID) (string, error) {
	var pseudonym string
	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := v.mappingRepo.GetByUserAndCase(ctx, userID, caseID)
		if err == nil {
			pseudonym = existing.Pseudonym
			return nil
		}
		if !errors.Is(err, vaultDomain.ErrMappingNotFound) {
			return err
		}

		minted, err := v.newPseudonym()
		if err != nil {
			return err
		}

		now := v.now()
		mapping := &vaultDomain.IdentityMapping{
			Pseudonym: minted,
			UserID:    userID,
			CaseID:    caseID,
			CreatedBy: createdBy,
			CreatedAt: now,
		}
		if err := v.mappingRepo.Create(ctx, mapping); err != nil {
			return err
		}
		if err := v.appendLog(ctx, minted, createdBy, vaultDomain.ReasonCreateMapping, now); err != nil {
			return err
		}

		pseudonym = minted
		return nil
	})
	return pseudonym, err
}

func (v *vaultUseCase) ResolveIdentity(
	ctx context.Context,
	pseudonym string,
	requestedBy uuid.UUID,
) (*vaultDomain.ResolvedIdentity, error) {
	var resolved *vaultDomain.ResolvedIdentity
	var lookupErr error
	err := v.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := v.now()
		mapping, err := v.mappingRepo.GetByPseudonym(ctx, pseudonym)
		if errors.Is(err, vaultDomain.ErrMappingNotFound) {
			// Failed lookups are audited too; the entry commits before the error is returned.
			lookupErr = err
			return v.appendLog(ctx, pseudonym, requestedBy, vaultDomain.ReasonResolveIdentity, now)
		}
		if err != nil {
			return err
		}

		if err := v.mappingRepo.RecordAccess(ctx, pseudonym, now); err != nil {
			return err
		}
		if err := v.appendLog(ctx, pseudonym, requestedBy, vaultDomain.ReasonResolveIdentity, now); err != nil {
			return err
		}

		resolved = &vaultDomain.ResolvedIdentity{UserID: mapping.UserID, CaseID: mapping.CaseID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if lookupErr != nil {
		return nil, lookupErr
	}
	return resolved, nil
}

func (v *vaultUseCase) GetUserPseudonyms(
	ctx context.Context,
	userID uuid.UUID,
) ([]vaultDomain.CasePseudonym, error) {
	return v.mappingRepo.ListByUser(ctx, userID)
}

func (v *vaultUseCase) VerifyAccess(ctx context.Context, userID, caseID uuid.UUID) (*vaultDomain.AccessCheck, error) {
	mapping, err := v.mappingRepo.GetByUserAndCase(ctx, userID, caseID)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrMappingNotFound) {
			return &vaultDomain.AccessCheck{}, nil
		}
		return nil, err
	}
	return &vaultDomain.AccessCheck{HasAccess: true, Pseudonym: mapping.Pseudonym}, nil
}

func (v *vaultUseCase) RevokeMapping(ctx context.Context, pseudonym string, revokedBy uuid.UUID) error {
	return v.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := v.mappingRepo.GetByPseudonym(ctx, pseudonym); err != nil {
			return err
		}
		if err := v.appendLog(ctx, pseudonym, revokedBy, vaultDomain.ReasonRevokeMapping, v.now()); err != nil {
			return err
		}
		return v.mappingRepo.Delete(ctx, pseudonym)
	})
}

func (v *vaultUseCase) ListAccessLogs(
	ctx context.Context,
	filter vaultDomain.AccessLogFilter,
	offset, limit int,
) ([]*vaultDomain.IdentityAccessLog, error) {
	return v.accessLogRepo.List(ctx, filter, offset, limit)
}

func (v *vaultUseCase) VerifyAccessLogs(ctx context.Context, offset, limit int) (*VerifyReport, error) {
	entries, err := v.accessLogRepo.List(ctx, vaultDomain.AccessLogFilter{}, offset, limit)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{Checked: len(entries), Invalid: make([]uuid.UUID, 0)}
	for _, entry := range entries {
		if err := v.signer.Verify(entry); err != nil {
			report.Invalid = append(report.Invalid, entry.ID)
		}
	}
	return report, nil
}

func (v *vaultUseCase) appendLog(
	ctx context.Context,
	pseudonym string,
	accessedBy uuid.UUID,
	reason vaultDomain.AccessReason,
	accessedAt time.Time,
) error {
	entry := &vaultDomain.IdentityAccessLog{
		ID:           uuid.Must(uuid.NewV7()),
		Pseudonym:    pseudonym,
		AccessedBy:   accessedBy,
		AccessReason: reason,
		AccessedAt:   accessedAt,
	}
	entry.Signature = v.signer.Sign(entry)
	return v.accessLogRepo.Create(ctx, entry)
}

// NewVaultUseCase creates a VaultUseCase. txManager must be bound to the vault connection.
func NewVaultUseCase(
	txManager database.TxManager,
	mappingRepo MappingRepository,
	accessLogRepo AccessLogRepository,
	signer vaultService.AccessLogSigner,
) VaultUseCase {
	return &vaultUseCase{
		txManager:     txManager,
		mappingRepo:   mappingRepo,
		accessLogRepo: accessLogRepo,
		signer:        signer,
		newPseudonym:  vaultDomain.NewPseudonym,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}
