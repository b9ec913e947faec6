package dto

import (
	"time"

	casesDomain "github.com/caseguard/caseguard/internal/cases/domain"
)

// CaseResponse is the public view of a case.
type CaseResponse struct {
	ID             string    `json:"id"`
	Number         string    `json:"number"`
	Title          string    `json:"title"`
	Classification string    `json:"classification"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MapCaseToResponse converts a case to its response.
func MapCaseToResponse(c *casesDomain.Case) CaseResponse {
	return CaseResponse{
		ID:             c.ID.String(),
		Number:         c.Number,
		Title:          c.Title,
		Classification: string(c.Classification),
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
