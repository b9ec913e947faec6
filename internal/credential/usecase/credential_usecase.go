package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	actorService "github.com/caseguard/caseguard/internal/actor/service"
	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
	credentialService "github.com/caseguard/caseguard/internal/credential/service"
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// maxGenerateAttempts bounds retries after temp address collisions.
const maxGenerateAttempts = 3

// Config holds credential issuance settings.
type Config struct {
	TTL        time.Duration
	MailDomain string
}

type credentialUseCase struct {
	config        Config
	repo          CredentialRepository
	secretService actorService.SecretService
	tokenService  actorService.TokenService
	signer        credentialService.TokenSigner
	now           func() time.Time
}

func (c *credentialUseCase) Generate(
	ctx context.Context,
	caseID uuid.UUID,
	pseudonym string,
) (*credentialDomain.IssuedCredential, error) {
	for range maxGenerateAttempts {
		issued, err := c.generate(ctx, caseID, pseudonym)
		if errors.Is(err, credentialDomain.ErrAddressCollision) {
			continue
		}
		return issued, err
	}
	return nil, apperrors.Wrap(credentialDomain.ErrAddressCollision, "credential generation attempts exhausted")
}

func (c *credentialUseCase) generate(
	ctx context.Context,
	caseID uuid.UUID,
	pseudonym string,
) (*credentialDomain.IssuedCredential, error) {
	address, err := credentialService.GenerateAddress(c.config.MailDomain)
	if err != nil {
		return nil, err
	}
	password, err := credentialService.GeneratePassword()
	if err != nil {
		return nil, err
	}
	passwordHash, err := c.secretService.HashSecret(password)
	if err != nil {
		return nil, err
	}

	now := c.now()
	expiresAt := now.Add(c.config.TTL)
	token, err := c.signer.Sign(credentialDomain.Claims{
		Pseudonym: pseudonym,
		CaseID:    caseID,
		Address:   address,
		ExpiresAt: expiresAt,
	}, now)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate credential id")
	}

	credential := &credentialDomain.EphemeralCredential{
		ID:               id,
		CaseID:           caseID,
		Pseudonym:        pseudonym,
		TempAddress:      address,
		TempPasswordHash: passwordHash,
		AccessToken:      token,
		AccessTokenHash:  c.tokenService.HashToken(token),
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
	}
	if err := c.repo.Create(ctx, credential); err != nil {
		return nil, err
	}

	return &credentialDomain.IssuedCredential{
		Address:   address,
		Password:  password,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (c *credentialUseCase) ValidateToken(ctx context.Context, token string) (*credentialDomain.TokenInfo, error) {
	claims, err := c.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	credential, err := c.repo.GetByAccessTokenHash(ctx, c.tokenService.HashToken(token))
	if err != nil {
		return nil, err
	}
	if credential.Pseudonym != claims.Pseudonym || credential.CaseID != claims.CaseID {
		return nil, credentialDomain.ErrInvalidCredential
	}
	if credential.IsExpiredAt(c.now()) {
		return nil, credentialDomain.ErrCredentialExpired
	}

	return &credentialDomain.TokenInfo{
		Pseudonym: credential.Pseudonym,
		CaseID:    credential.CaseID,
		Address:   credential.TempAddress,
		Used:      credential.IsUsed(),
	}, nil
}

func (c *credentialUseCase) ValidatePassword(ctx context.Context, caseID uuid.UUID, password string) (string, error) {
	credentials, err := c.repo.ListActiveByCase(ctx, caseID, c.now())
	if err != nil {
		return "", err
	}
	for _, credential := range credentials {
		if c.secretService.CompareSecret(password, credential.TempPasswordHash) {
			return credential.AccessToken, nil
		}
	}
	return "", credentialDomain.ErrInvalidCredential
}

func (c *credentialUseCase) MarkAsUsed(ctx context.Context, token string) error {
	return c.repo.MarkAsUsed(ctx, c.tokenService.HashToken(token), c.now())
}

func (c *credentialUseCase) CleanupExpired(ctx context.Context, dryRun bool) (int64, error) {
	if dryRun {
		return c.repo.CountExpired(ctx, c.now())
	}
	return c.repo.DeleteExpired(ctx, c.now())
}

// NewCredentialUseCase creates a new CredentialUseCase.
func NewCredentialUseCase(
	config Config,
	repo CredentialRepository,
	secretService actorService.SecretService,
	tokenService actorService.TokenService,
	signer credentialService.TokenSigner,
) CredentialUseCase {
	return &credentialUseCase{
		config:        config,
		repo:          repo,
		secretService: secretService,
		tokenService:  tokenService,
		signer:        signer,
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	}
}
