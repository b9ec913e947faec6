package dto

import (
	"time"

	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

// ResolvedIdentityResponse is the answer of POST /v1/vault/resolve.
type ResolvedIdentityResponse struct {
	UserID string `json:"user_id"`
	CaseID string `json:"case_id"`
}

// MapResolvedIdentityToResponse converts a resolved identity to its response.
func MapResolvedIdentityToResponse(resolved *vaultDomain.ResolvedIdentity) ResolvedIdentityResponse {
	return ResolvedIdentityResponse{
		UserID: resolved.UserID.String(),
		CaseID: resolved.CaseID.String(),
	}
}

// CasePseudonymResponse is one entry of GET /v1/me/cases.
type CasePseudonymResponse struct {
	Pseudonym string `json:"pseudonym"`
	CaseID    string `json:"case_id"`
}

// MapCasePseudonymsToResponse converts the actor's pseudonyms to responses.
func MapCasePseudonymsToResponse(pseudonyms []vaultDomain.CasePseudonym) []CasePseudonymResponse {
	responses := make([]CasePseudonymResponse, 0, len(pseudonyms))
	for _, p := range pseudonyms {
		responses = append(responses, CasePseudonymResponse{Pseudonym: p.Pseudonym, CaseID: p.CaseID.String()})
	}
	return responses
}

// AccessLogResponse is one access log entry. The signature is an internal integrity field and
// is not exported.
type AccessLogResponse struct {
	ID           string    `json:"id"`
	Pseudonym    string    `json:"pseudonym"`
	AccessedBy   string    `json:"accessed_by"`
	AccessReason string    `json:"access_reason"`
	AccessedAt   time.Time `json:"accessed_at"`
}

// MapAccessLogsToResponse converts access log entries to responses.
func MapAccessLogsToResponse(entries []*vaultDomain.IdentityAccessLog) []AccessLogResponse {
	responses := make([]AccessLogResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, AccessLogResponse{
			ID:           e.ID.String(),
			Pseudonym:    e.Pseudonym,
			AccessedBy:   e.AccessedBy.String(),
			AccessReason: string(e.AccessReason),
			AccessedAt:   e.AccessedAt,
		})
	}
	return responses
}
