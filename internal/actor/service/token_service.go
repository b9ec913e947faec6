package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/caseguard/caseguard/internal/errors"
)

type tokenService struct{}

// GenerateToken creates a 32-byte random token and its SHA-256 hash.
func (t *tokenService) GenerateToken() (string, string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}
	plainToken := base64.RawURLEncoding.EncodeToString(raw)
	return plainToken, t.HashToken(plainToken), nil
}

func (t *tokenService) HashToken(plainToken string) string {
	sum := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(sum[:])
}

// NewTokenService creates a TokenService.
func NewTokenService() TokenService {
	return &tokenService{}
}
