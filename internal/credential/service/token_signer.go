package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
)

// TokenSigner issues and verifies ephemeral access tokens.
type TokenSigner interface {
	// Sign returns an HS256 token carrying claims, issued at issuedAt.
	Sign(claims credentialDomain.Claims, issuedAt time.Time) (string, error)

	// Parse verifies signature, algorithm, expiry and token type. Every failure is reported
	// as ErrInvalidCredential.
	Parse(token string) (*credentialDomain.Claims, error)
}

type accessClaims struct {
	Pseudonym string `json:"pseudonym"`
	CaseID    string `json:"caseId"`
	Type      string `json:"type"`
	Address   string `json:"address"`
	jwt.RegisteredClaims
}

type jwtTokenSigner struct {
	key []byte
}

// NewTokenSigner creates a TokenSigner from a key derived for credential tokens.
func NewTokenSigner(key []byte) (TokenSigner, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("token signing key must be at least 32 bytes, got %d", len(key))
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &jwtTokenSigner{key: k}, nil
}

func (s *jwtTokenSigner) Sign(claims credentialDomain.Claims, issuedAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Pseudonym: claims.Pseudonym,
		CaseID:    claims.CaseID.String(),
		Type:      credentialDomain.TokenType,
		Address:   claims.Address,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *jwtTokenSigner) Parse(token string) (*credentialDomain.Claims, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, credentialDomain.ErrCredentialExpired
		}
		return nil, credentialDomain.ErrInvalidCredential
	}
	if claims.Type != credentialDomain.TokenType {
		return nil, credentialDomain.ErrInvalidCredential
	}

	caseID, err := uuid.Parse(claims.CaseID)
	if err != nil || claims.Pseudonym == "" {
		return nil, credentialDomain.ErrInvalidCredential
	}

	return &credentialDomain.Claims{
		Pseudonym: claims.Pseudonym,
		CaseID:    caseID,
		Address:   claims.Address,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
