package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// Case errors.
var (
	ErrCaseNotFound = apperrors.Wrap(apperrors.ErrNotFound, "case not found")

	// ErrCaseNumberTaken indicates another case already uses the number.
	ErrCaseNumberTaken = apperrors.Wrap(apperrors.ErrConflict, "case number already exists")

	// ErrInvalidClassification indicates an unknown classification.
	ErrInvalidClassification = apperrors.Wrap(
		apperrors.ErrInvalidInput,
		"classification must be one of public, confidential, secret, top_secret",
	)
)
