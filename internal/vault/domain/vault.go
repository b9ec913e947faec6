// Package domain defines the identity vault model: pseudonymous identifiers that stand for a
// real actor inside exactly one case, and the append-only log of every access to them.
package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// PseudonymPrefix starts every pseudonym.
	PseudonymPrefix = "anon_"

	pseudonymRandomBytes = 16
)

// NewPseudonym mints a fresh pseudonym: PseudonymPrefix followed by 128 random bits in
// lowercase hex.
func NewPseudonym() (string, error) {
	b := make([]byte, pseudonymRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return PseudonymPrefix + hex.EncodeToString(b), nil
}

// IsPseudonym reports whether s has the shape of a pseudonym.
func IsPseudonym(s string) bool {
	suffix, ok := strings.CutPrefix(s, PseudonymPrefix)
	if !ok || len(suffix) != pseudonymRandomBytes*2 {
		return false
	}
	for _, c := range suffix {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// IdentityMapping links a pseudonym to the real actor it stands for inside one case.
// There is at most one mapping per (UserID, CaseID) and pseudonyms are never reused.
type IdentityMapping struct {
	Pseudonym      string
	UserID         uuid.UUID
	CaseID         uuid.UUID
	CreatedBy      uuid.UUID
	CreatedAt      time.Time
	LastAccessedAt *time.Time
	AccessCount    int64
}

// CasePseudonym is one entry of an actor's pseudonym list.
type CasePseudonym struct {
	Pseudonym string
	CaseID    uuid.UUID
}

// AccessCheck is the answer of VerifyAccess.
type AccessCheck struct {
	HasAccess bool
	Pseudonym string
}

// ResolvedIdentity is the real identity behind a pseudonym.
type ResolvedIdentity struct {
	UserID uuid.UUID
	CaseID uuid.UUID
}

// AccessReason names the operation an access log entry records.
type AccessReason string

const (
	ReasonCreateMapping   AccessReason = "create_mapping"
	ReasonResolveIdentity AccessReason = "resolve_identity"
	ReasonRevokeMapping   AccessReason = "revoke_mapping"
)

// IsValid reports whether r is one of the known access reasons.
func (r AccessReason) IsValid() bool {
	switch r {
	case ReasonCreateMapping, ReasonResolveIdentity, ReasonRevokeMapping:
		return true
	}
	return false
}

// IdentityAccessLog is an append-only record of one vault access. Signature is an HMAC over
// the other fields.
type IdentityAccessLog struct {
	ID           uuid.UUID
	Pseudonym    string
	AccessedBy   uuid.UUID
	AccessReason AccessReason
	AccessedAt   time.Time
	Signature    []byte
}

// AccessLogFilter narrows ListAccessLogs. An empty Pseudonym lists every entry.
type AccessLogFilter struct {
	Pseudonym string
}
