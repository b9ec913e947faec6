// Package usecase opens and tracks case sessions. A session is only ever opened by consuming
// an ephemeral credential and holds the pseudonym, never the real identity.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	sessionDomain "github.com/caseguard/caseguard/internal/session/domain"
)

// SessionStore persists case sessions under the hash of their token.
type SessionStore interface {
	Save(ctx context.Context, key string, session *sessionDomain.CaseSession, ttl time.Duration) error

	// Get returns ErrSessionNotFound for unknown or expired keys.
	Get(ctx context.Context, key string) (*sessionDomain.CaseSession, error)

	Delete(ctx context.Context, key string) error
}

// SessionUseCase defines case session operations.
type SessionUseCase interface {
	// OpenWithPassword opens a session for an authenticated actor assigned to the case. The
	// password must belong to an active credential issued to the actor's pseudonym.
	OpenWithPassword(
		ctx context.Context,
		actorID, caseID uuid.UUID,
		password string,
	) (*sessionDomain.OpenedSession, error)

	// OpenWithLink opens a session from the one-click access token sent with the credential.
	OpenWithLink(ctx context.Context, token string) (*sessionDomain.OpenedSession, error)

	Current(ctx context.Context, sessionToken string) (*sessionDomain.CaseSession, error)

	Close(ctx context.Context, sessionToken string) error
}
