package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/caseguard/caseguard/internal/errors"
)

func TestAlgorithm_IsValid(t *testing.T) {
	assert.True(t, AESGCM.IsValid())
	assert.True(t, ChaCha20.IsValid())
	assert.False(t, Algorithm("aes-cbc").IsValid())
	assert.False(t, Algorithm("").IsValid())
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, ErrUnsupportedAlgorithm, apperrors.ErrInvalidInput)
	assert.ErrorIs(t, ErrInvalidKeySize, apperrors.ErrInvalidInput)
	assert.ErrorIs(t, ErrMalformedCiphertext, apperrors.ErrIntegrity)
	assert.ErrorIs(t, ErrDecryptionFailed, apperrors.ErrIntegrity)
}
