package domain

import (
	apperrors "github.com/caseguard/caseguard/internal/errors"
)

var (
	// ErrUnsupportedAlgorithm is returned for an algorithm other than AESGCM or ChaCha20.
	ErrUnsupportedAlgorithm = apperrors.Wrap(apperrors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize is returned when a key is not 32 bytes.
	ErrInvalidKeySize = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid key size")

	// ErrMalformedCiphertext is returned when a stored value is not a sealed field.
	ErrMalformedCiphertext = apperrors.Wrap(apperrors.ErrIntegrity, "malformed ciphertext")

	// ErrDecryptionFailed is returned when authentication of a sealed field fails: wrong key,
	// wrong record, or tampered data. The cause is not disclosed.
	ErrDecryptionFailed = apperrors.Wrap(apperrors.ErrIntegrity, "decryption failed")
)
