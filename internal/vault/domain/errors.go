package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// Vault errors.
var (
	// ErrMappingNotFound indicates no mapping exists for the pseudonym or (user, case) pair.
	ErrMappingNotFound = apperrors.Wrap(apperrors.ErrNotFound, "identity mapping not found")

	// ErrMappingExists indicates a concurrent writer already created the (user, case) mapping.
	ErrMappingExists = apperrors.Wrap(apperrors.ErrIntegrity, "identity mapping already exists")

	// ErrPseudonymCollision indicates the freshly minted pseudonym is already taken.
	ErrPseudonymCollision = apperrors.Wrap(apperrors.ErrIntegrity, "pseudonym collision")

	// ErrPseudonymExhausted indicates every pseudonym attempt collided.
	ErrPseudonymExhausted = apperrors.Wrap(apperrors.ErrUnavailable, "could not mint a unique pseudonym")

	// ErrInvalidPseudonym indicates a malformed pseudonym.
	ErrInvalidPseudonym = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid pseudonym")

	// ErrSignatureInvalid indicates an access log entry does not match its signature.
	ErrSignatureInvalid = apperrors.Wrap(apperrors.ErrIntegrity, "access log signature is invalid")
)
