// Package domain defines ephemeral case credentials: short-lived, single-use logins bound to
// one pseudonym and one case.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TokenType is the value of the "type" claim of every ephemeral access token.
const TokenType = "ephemeral"

// EphemeralCredential is the persisted form of a credential. The plain password is never
// stored; AccessTokenHash is the lookup key for the signed token.
type EphemeralCredential struct {
	ID               uuid.UUID
	CaseID           uuid.UUID
	Pseudonym        string
	TempAddress      string
	TempPasswordHash string
	AccessToken      string
	AccessTokenHash  string
	ExpiresAt        time.Time
	UsedAt           *time.Time
	CreatedAt        time.Time
}

// IsExpiredAt reports whether the credential is past its validity window at now.
func (c *EphemeralCredential) IsExpiredAt(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// IsUsed reports whether the credential has already opened a session.
func (c *EphemeralCredential) IsUsed() bool {
	return c.UsedAt != nil
}

// IssuedCredential is what Generate hands back exactly once.
type IssuedCredential struct {
	Address   string
	Password  string
	Token     string
	ExpiresAt time.Time
}

// TokenInfo is the result of a successful token validation.
type TokenInfo struct {
	Pseudonym string
	CaseID    uuid.UUID
	Address   string
	Used      bool
}

// Claims are the application claims carried by an access token.
type Claims struct {
	Pseudonym string
	CaseID    uuid.UUID
	Address   string
	ExpiresAt time.Time
}
