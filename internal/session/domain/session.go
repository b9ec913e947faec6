// Package domain defines case sessions: short-lived, pseudonymous sessions scoped to one case,
// opened by consuming an ephemeral credential.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseSession is the state kept behind an opaque session token. It never carries a real
// identity.
type CaseSession struct {
	CaseID    uuid.UUID `json:"case_id"`
	Pseudonym string    `json:"anon_actor_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OpenedSession pairs a new session with its plain token. The token is shown once.
type OpenedSession struct {
	Token   string
	Session CaseSession
}
