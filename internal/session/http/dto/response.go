package dto

import (
	"time"

	sessionDomain "github.com/caseguard/caseguard/internal/session/domain"
)

// OpenedSessionResponse is returned once when a session is opened.
type OpenedSessionResponse struct {
	SessionToken string    `json:"session_token"`
	CaseID       string    `json:"case_id"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MapOpenedSessionToResponse converts an opened session to its response.
func MapOpenedSessionToResponse(opened *sessionDomain.OpenedSession) OpenedSessionResponse {
	return OpenedSessionResponse{
		SessionToken: opened.Token,
		CaseID:       opened.Session.CaseID.String(),
		ExpiresAt:    opened.Session.ExpiresAt,
	}
}

// SessionResponse describes the current case session.
type SessionResponse struct {
	CaseID    string    `json:"case_id"`
	Pseudonym string    `json:"pseudonym"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapSessionToResponse converts a case session to its response.
func MapSessionToResponse(session *sessionDomain.CaseSession) SessionResponse {
	return SessionResponse{
		CaseID:    session.CaseID.String(),
		Pseudonym: session.Pseudonym,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
}
