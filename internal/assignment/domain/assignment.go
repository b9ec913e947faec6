// Package domain defines case assignments. An assignment binds a case to the pseudonym of its
// assignee and never to a real identity.
package domain

import (
	"time"

	"github.com/google/uuid"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
)

// WarningNotificationFailed marks an assignment whose credential notice could not be delivered.
const WarningNotificationFailed = "notification_failed"

// Assignment is the case store row linking a case to an assignee pseudonym.
type Assignment struct {
	ID         uuid.UUID
	CaseID     uuid.UUID
	Pseudonym  string
	AssignedAt time.Time
}

// AssignInput requests an assignment. A nil AssigneeID picks a random eligible judge.
type AssignInput struct {
	CaseID     uuid.UUID
	AssignerID uuid.UUID
	AssigneeID *uuid.UUID
}

// Result is returned once to the assigner. Credential holds the only copy of the plain
// password and token.
type Result struct {
	CaseID     uuid.UUID
	Pseudonym  string
	Credential *credentialDomain.IssuedCredential
	AssignedAt time.Time
	Warning    string
}
