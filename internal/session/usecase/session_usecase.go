package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	actorService "github.com/caseguard/caseguard/internal/actor/service"
	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	credentialUseCase "github.com/caseguard/caseguard/internal/credential/usecase"
	sessionDomain "github.com/caseguard/caseguard/internal/session/domain"
	vaultUseCase "github.com/caseguard/caseguard/internal/vault/usecase"
)

type sessionUseCase struct {
	vaultUseCase      vaultUseCase.VaultUseCase
	credentialUseCase credentialUseCase.CredentialUseCase
	tokenService      actorService.TokenService
	store             SessionStore
	ttl               time.Duration
	now               func() time.Time
}

func (s *sessionUseCase) OpenWithPassword(
	ctx context.Context,
	actorID, caseID uuid.UUID,
	password string,
) (*sessionDomain.OpenedSession, error) {
	access, err := s.vaultUseCase.VerifyAccess(ctx, actorID, caseID)
	if err != nil {
		return nil, err
	}
	if !access.HasAccess {
		return nil, credentialDomain.ErrInvalidCredential
	}

	token, err := s.credentialUseCase.ValidatePassword(ctx, caseID, password)
	if err != nil {
		return nil, err
	}
	info, err := s.credentialUseCase.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.Pseudonym != access.Pseudonym {
		return nil, credentialDomain.ErrInvalidCredential
	}

	return s.consume(ctx, token, info)
}

func (s *sessionUseCase) OpenWithLink(ctx context.Context, token string) (*sessionDomain.OpenedSession, error) {
	info, err := s.credentialUseCase.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if info.Used {
		return nil, credentialDomain.ErrCredentialUsed
	}
	return s.consume(ctx, token, info)
}

// consume marks the credential as used and only then stores the session, so a credential
// opens at most one session.
func (s *sessionUseCase) consume(
	ctx context.Context,
	token string,
	info *credentialDomain.TokenInfo,
) (*sessionDomain.OpenedSession, error) {
	if err := s.credentialUseCase.MarkAsUsed(ctx, token); err != nil {
		return nil, err
	}

	sessionToken, key, err := s.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := sessionDomain.CaseSession{
		CaseID:    info.CaseID,
		Pseudonym: info.Pseudonym,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, key, &session, s.ttl); err != nil {
		return nil, err
	}

	return &sessionDomain.OpenedSession{Token: sessionToken, Session: session}, nil
}

func (s *sessionUseCase) Current(ctx context.Context, sessionToken string) (*sessionDomain.CaseSession, error) {
	if sessionToken == "" {
		return nil, sessionDomain.ErrSessionNotFound
	}
	return s.store.Get(ctx, s.tokenService.HashToken(sessionToken))
}

func (s *sessionUseCase) Close(ctx context.Context, sessionToken string) error {
	if _, err := s.Current(ctx, sessionToken); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.tokenService.HashToken(sessionToken))
}

// NewSessionUseCase creates a new SessionUseCase issuing sessions valid for ttl.
func NewSessionUseCase(
	vaultUseCase vaultUseCase.VaultUseCase,
	credentialUseCase credentialUseCase.CredentialUseCase,
	tokenService actorService.TokenService,
	store SessionStore,
	ttl time.Duration,
) SessionUseCase {
	return &sessionUseCase{
		vaultUseCase:      vaultUseCase,
		credentialUseCase: credentialUseCase,
		tokenService:      tokenService,
		store:             store,
		ttl:               ttl,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}
