// Package domain defines the people who operate the system: judges, secretaries, auditors
// and administrators, together with the bearer tokens they authenticate with.
//
// Roles are descriptive only. What an actor may do is decided by the attributes granted to
// it and the active security policies.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role describes an actor's function.
type Role string

const (
	RoleJudge      Role = "judge"
	RoleSecretary  Role = "secretary"
	RoleAuditor    Role = "auditor"
	RoleSuperAdmin Role = "super_admin"
)

// Roles lists every valid role.
func Roles() []Role {
	return []Role{RoleJudge, RoleSecretary, RoleAuditor, RoleSuperAdmin}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleJudge, RoleSecretary, RoleAuditor, RoleSuperAdmin:
		return true
	}
	return false
}

// Actor is an authenticated principal.
type Actor struct {
	ID             uuid.UUID
	Name           string
	Email          string
	Role           Role
	Secret         string //nolint:gosec // argon2id hash, never the plain secret
	IsActive       bool
	FailedAttempts int
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLockedAt reports whether the actor is locked out at now.
func (a *Actor) IsLockedAt(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// Token is an issued bearer token. Only its SHA-256 hash is stored.
type Token struct {
	ID        uuid.UUID
	TokenHash string
	ActorID   uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// IsUsableAt reports whether the token is neither expired nor revoked at now.
func (t *Token) IsUsableAt(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// CreateActorInput contains the parameters for creating an actor. The secret is generated.
type CreateActorInput struct {
	Name     string
	Email    string
	Role     Role
	IsActive bool
}

// CreateActorOutput carries the plain secret, which is only ever returned here.
type CreateActorOutput struct {
	ID          uuid.UUID
	PlainSecret string
}

// UpdateActorInput contains the mutable fields of an actor.
type UpdateActorInput struct {
	Name     string
	Email    string
	Role     Role
	IsActive bool
}

// IssueTokenInput holds the credentials presented at POST /v1/token.
type IssueTokenInput struct {
	Email  string
	Secret string
}

// IssueTokenOutput carries the plain bearer token, returned once.
type IssueTokenOutput struct {
	PlainToken string
	ExpiresAt  time.Time
}
