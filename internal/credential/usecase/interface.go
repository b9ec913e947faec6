// Package usecase issues and validates ephemeral case credentials.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
)

// CredentialRepository defines persistence operations for ephemeral credentials.
// Implementations must support transaction-aware operations via context propagation.
type CredentialRepository interface {
	// Create returns ErrAddressCollision when the temp address or token hash is taken.
	Create(ctx context.Context, credential *credentialDomain.EphemeralCredential) error

	// GetByAccessTokenHash returns ErrInvalidCredential if no credential carries the hash.
	GetByAccessTokenHash(ctx context.Context, tokenHash string) (*credentialDomain.EphemeralCredential, error)

	ListActiveByCase(
		ctx context.Context,
		caseID uuid.UUID,
		now time.Time,
	) ([]*credentialDomain.EphemeralCredential, error)

	// MarkAsUsed returns ErrCredentialUsed when no unused credential unexpired at usedAt
	// carries the hash.
	MarkAsUsed(ctx context.Context, tokenHash string, usedAt time.Time) error

	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

// CredentialUseCase defines the lifecycle of ephemeral credentials.
type CredentialUseCase interface {
	// Generate issues a credential for the pseudonym in the case. The plain password and token
	// are only ever returned here.
	Generate(ctx context.Context, caseID uuid.UUID, pseudonym string) (*credentialDomain.IssuedCredential, error)

	// ValidateToken checks the token signature and type, then the persisted record. The
	// persisted expiry wins over the token's own exp claim.
	ValidateToken(ctx context.Context, token string) (*credentialDomain.TokenInfo, error)

	// ValidatePassword returns the access token of the active credential of the case matching
	// the password.
	ValidatePassword(ctx context.Context, caseID uuid.UUID, password string) (string, error)

	// MarkAsUsed consumes the credential. A second call fails with ErrCredentialUsed.
	MarkAsUsed(ctx context.Context, token string) error

	// CleanupExpired deletes credentials past their expiry and returns how many. With dryRun
	// it only counts them.
	CleanupExpired(ctx context.Context, dryRun bool) (int64, error)
}
