package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// ErrSessionNotFound covers unknown, expired and closed sessions.
var ErrSessionNotFound = apperrors.Wrap(apperrors.ErrUnauthorized, "case session not found")
