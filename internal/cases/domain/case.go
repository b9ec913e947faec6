// Package domain defines judicial cases as the access layer sees them: a classification that
// sets the clearance an assignee needs, and a status.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Classification is the sensitivity of a case.
type Classification string

const (
	ClassificationPublic       Classification = "public"
	ClassificationConfidential Classification = "confidential"
	ClassificationSecret       Classification = "secret"
	ClassificationTopSecret    Classification = "top_secret"
)

// IsValid reports whether c is a known classification.
func (c Classification) IsValid() bool {
	switch c {
	case ClassificationPublic, ClassificationConfidential, ClassificationSecret, ClassificationTopSecret:
		return true
	}
	return false
}

// RequiredClearance is the authorization level an assignee must hold, 0 for none.
func (c Classification) RequiredClearance() int {
	switch c {
	case ClassificationConfidential:
		return 3
	case ClassificationSecret:
		return 4
	case ClassificationTopSecret:
		return 5
	default:
		return 0
	}
}

// Status is the lifecycle stage of a case.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAssigned Status = "assigned"
	StatusInReview Status = "in_review"
	StatusClosed   Status = "closed"
)

// Case is a judicial case. It never references a real identity.
type Case struct {
	ID             uuid.UUID
	Number         string
	Title          string
	Classification Classification
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsClosed reports whether the case no longer accepts assignments.
func (c *Case) IsClosed() bool {
	return c.Status == StatusClosed
}

// CreateCaseInput holds the fields of a new case. CreatedBy must hold the clearance the
// classification requires.
type CreateCaseInput struct {
	Number         string
	Title          string
	Classification Classification
	CreatedBy      uuid.UUID
}
