package dto

import (
	"time"

	actorDomain "github.com/caseguard/caseguard/internal/actor/domain"
)

// CreateActorResponse contains the result of creating an actor.
// SECURITY: The secret is only returned once and must be saved securely.
type CreateActorResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"` //nolint:gosec // returned once on creation
}

// ActorResponse represents an actor in API responses (excludes the secret hash).
type ActorResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MapActorToResponse converts a domain actor to an API response.
func MapActorToResponse(actor *actorDomain.Actor) ActorResponse {
	return ActorResponse{
		ID:          actor.ID.String(),
		Name:        actor.Name,
		Email:       actor.Email,
		Role:        string(actor.Role),
		IsActive:    actor.IsActive,
		LockedUntil: actor.LockedUntil,
		CreatedAt:   actor.CreatedAt,
		UpdatedAt:   actor.UpdatedAt,
	}
}

// MapActorsToResponse converts a slice of domain actors.
func MapActorsToResponse(actors []*actorDomain.Actor) []ActorResponse {
	responses := make([]ActorResponse, 0, len(actors))
	for _, actor := range actors {
		responses = append(responses, MapActorToResponse(actor))
	}
	return responses
}

// IssueTokenResponse contains the result of issuing a token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
