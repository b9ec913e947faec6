// Package usecase implements the identity vault: the only component allowed to read or write
// the link between a real actor and the pseudonym it uses inside a case.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

// MappingRepository defines persistence operations for identity mappings.
// Implementations must support transaction-aware operations via context propagation.
type MappingRepository interface {
	// Create stores a new mapping. Returns ErrMappingExists when the (user, case) pair is taken
	// and ErrPseudonymCollision when the pseudonym is.
	Create(ctx context.Context, mapping *vaultDomain.IdentityMapping) error

	// GetByPseudonym returns ErrMappingNotFound if no mapping uses the pseudonym.
	GetByPseudonym(ctx context.Context, pseudonym string) (*vaultDomain.IdentityMapping, error)

	// GetByUserAndCase returns ErrMappingNotFound if the actor has no pseudonym in the case.
	GetByUserAndCase(ctx context.Context, userID, caseID uuid.UUID) (*vaultDomain.IdentityMapping, error)

	ListByUser(ctx context.Context, userID uuid.UUID) ([]vaultDomain.CasePseudonym, error)

	// RecordAccess increments the access counter and sets the last access time.
	RecordAccess(ctx context.Context, pseudonym string, accessedAt time.Time) error

	// Delete removes the mapping. Returns ErrMappingNotFound if it does not exist.
	Delete(ctx context.Context, pseudonym string) error
}

// AccessLogRepository defines persistence operations for the append-only access log.
type AccessLogRepository interface {
	Create(ctx context.Context, entry *vaultDomain.IdentityAccessLog) error

	// List returns entries newest first.
	List(
		ctx context.Context,
		filter vaultDomain.AccessLogFilter,
		offset, limit int,
	) ([]*vaultDomain.IdentityAccessLog, error)
}

// VerifyReport is the outcome of checking one page of access log signatures.
type VerifyReport struct {
	Checked int
	Invalid []uuid.UUID
}

// VaultUseCase issues, resolves and revokes pseudonyms. Every mutation and every resolution
// appends exactly one signed access log entry in the same vault transaction.
type VaultUseCase interface {
	// CreateMapping returns the actor's pseudonym for the case, minting one if needed.
	// Concurrent calls for the same pair all return the same pseudonym.
	CreateMapping(ctx context.Context, userID, caseID, createdBy uuid.UUID) (string, error)

	// ResolveIdentity returns the real identity behind a pseudonym and logs the access.
	// Unknown pseudonyms are logged as well before ErrMappingNotFound is returned.
	// Callers must authorize vault.resolve first.
	ResolveIdentity(
		ctx context.Context,
		pseudonym string,
		requestedBy uuid.UUID,
	) (*vaultDomain.ResolvedIdentity, error)

	// GetUserPseudonyms lists the actor's pseudonyms. It is not logged.
	GetUserPseudonyms(ctx context.Context, userID uuid.UUID) ([]vaultDomain.CasePseudonym, error)

	// VerifyAccess reports whether the actor has a pseudonym in the case. It is not logged.
	VerifyAccess(ctx context.Context, userID, caseID uuid.UUID) (*vaultDomain.AccessCheck, error)

	// RevokeMapping logs the revocation and then deletes the mapping. When logging fails the
	// mapping is kept.
	RevokeMapping(ctx context.Context, pseudonym string, revokedBy uuid.UUID) error

	// ListAccessLogs returns access log entries newest first.
	ListAccessLogs(
		ctx context.Context,
		filter vaultDomain.AccessLogFilter,
		offset, limit int,
	) ([]*vaultDomain.IdentityAccessLog, error)

	// VerifyAccessLogs recomputes the signature of one page of entries.
	VerifyAccessLogs(ctx context.Context, offset, limit int) (*VerifyReport, error)
}
