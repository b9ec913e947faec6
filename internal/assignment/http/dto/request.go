// Package dto provides data transfer objects for the case assignment endpoint.
package dto

import (
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"
)

// AssignCaseRequest is the body of POST /v1/cases/:id/assignment. An empty body picks a
// random eligible judge.
type AssignCaseRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// Validate checks if the assignment request is valid.
func (r *AssignCaseRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AssigneeID, is.UUID),
	)
}
