package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

// Credential errors. Callers outside the service see all of them as invalid_credential.
var (
	// ErrInvalidCredential covers bad signatures, wrong token types, unknown tokens and wrong
	// passwords alike.
	ErrInvalidCredential = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credential")

	// ErrCredentialExpired indicates the persisted expiry has passed.
	ErrCredentialExpired = apperrors.Wrap(apperrors.ErrExpired, "credential expired")

	// ErrCredentialUsed indicates the credential was already consumed.
	ErrCredentialUsed = apperrors.Wrap(apperrors.ErrNotFound, "credential already used")
)

// ErrAddressCollision indicates a freshly generated temp address or token hash already exists.
var ErrAddressCollision = apperrors.Wrap(apperrors.ErrIntegrity, "credential address collision")
