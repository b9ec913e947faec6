package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// Assignment errors.
var (
	// ErrAlreadyAssigned indicates the case has an assignee. The first assignment is final.
	ErrAlreadyAssigned = apperrors.Wrap(apperrors.ErrConflict, "case already assigned")

	ErrAssignmentNotFound = apperrors.Wrap(apperrors.ErrNotFound, "assignment not found")

	// ErrCaseClosed indicates the case no longer accepts assignments.
	ErrCaseClosed = apperrors.Wrap(apperrors.ErrConflict, "case is closed")

	// ErrInvalidAssignee indicates the requested assignee is unknown, inactive or holds a role
	// that cannot be assigned.
	ErrInvalidAssignee = apperrors.Wrap(apperrors.ErrInvalidInput, "assignee must be an active judge or secretary")

	// ErrInsufficientClearance indicates the requested assignee lacks clearance for the case.
	ErrInsufficientClearance = apperrors.Wrap(
		apperrors.ErrInvalidInput,
		"assignee lacks clearance for the case classification",
	)

	// ErrNoEligibleAssignee indicates no active judge holds clearance for the case.
	ErrNoEligibleAssignee = apperrors.Wrap(apperrors.ErrConflict, "no eligible judge for the case")
)
