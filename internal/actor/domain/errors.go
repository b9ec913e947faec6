package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// Actor errors.
var (
	// ErrActorNotFound indicates an actor with the specified ID was not found.
	ErrActorNotFound = apperrors.Wrap(apperrors.ErrNotFound, "actor not found")

	// ErrEmailTaken indicates another actor already uses the email.
	ErrEmailTaken = apperrors.Wrap(apperrors.ErrConflict, "email already registered")

	// ErrInvalidRole indicates an unknown role.
	ErrInvalidRole = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid role")

	// ErrTokenNotFound indicates no token matches the presented hash.
	ErrTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "token not found")

	// ErrInvalidCredentials covers unknown emails, wrong secrets and unusable tokens alike.
	ErrInvalidCredentials = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")

	// ErrActorInactive indicates the actor has been deactivated.
	ErrActorInactive = apperrors.Wrap(apperrors.ErrForbidden, "actor is inactive")

	// ErrActorLocked indicates too many failed logins.
	ErrActorLocked = apperrors.Wrap(apperrors.ErrLocked, "actor is locked")
)
