package dto

import (
	"time"

	assignmentDomain "github.com/caseguard/caseguard/internal/assignment/domain"
)

// CredentialResponse is shown exactly once. Nothing here can be retrieved again.
type CredentialResponse struct {
	Address   string    `json:"address"`
	Password  string    `json:"password"` //nolint:gosec // one-time disclosure to the assigner
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AssignmentResponse is the answer of POST /v1/cases/:id/assignment.
type AssignmentResponse struct {
	CaseID      string             `json:"case_id"`
	AnonActorID string             `json:"anon_actor_id"`
	AssignedAt  time.Time          `json:"assigned_at"`
	Credential  CredentialResponse `json:"credential"`
	Warning     string             `json:"warning,omitempty"`
}

// MapResultToResponse converts an assignment result to its response.
func MapResultToResponse(result *assignmentDomain.Result) AssignmentResponse {
	return AssignmentResponse{
		CaseID:      result.CaseID.String(),
		AnonActorID: result.Pseudonym,
		AssignedAt:  result.AssignedAt,
		Credential: CredentialResponse{
			Address:   result.Credential.Address,
			Password:  result.Credential.Password,
			Token:     result.Credential.Token,
			ExpiresAt: result.Credential.ExpiresAt,
		},
		Warning: result.Warning,
	}
}
