package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/caseguard/caseguard/internal/crypto/domain"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t)

	t.Run("Success_AESGCM", func(t *testing.T) {
		aead, err := manager.CreateCipher(key, cryptoDomain.AESGCM)
		require.NoError(t, err)
		assert.IsType(t, &AESGCMCipher{}, aead)
	})

	t.Run("Success_ChaCha20", func(t *testing.T) {
		aead, err := manager.CreateCipher(key, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		assert.IsType(t, &ChaCha20Poly1305Cipher{}, aead)
	})

	t.Run("Error_UnsupportedAlgorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(key, cryptoDomain.Algorithm("aes-cbc"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("Error_KeyTooShort", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})

	t.Run("Error_KeyTooLong", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 64), cryptoDomain.ChaCha20)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestAEAD_RoundTrip(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			aead, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)
			plaintext := []byte("Judge Maria Souza")
			aad := []byte("actor-1:name")

			ciphertext, nonce, err := aead.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, 12)
			assert.Len(t, ciphertext, len(plaintext)+16)
			assert.NotContains(t, string(ciphertext), "Maria")

			decrypted, err := aead.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)

			_, err = aead.Decrypt(ciphertext, nonce, []byte("actor-2:name"))
			assert.Error(t, err)

			ciphertext[0] ^= 0xff
			_, err = aead.Decrypt(ciphertext, nonce, aad)
			assert.Error(t, err)
		})
	}
}

func TestAEAD_FreshNoncePerCall(t *testing.T) {
	aead, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	first, nonce1, err := aead.Encrypt([]byte("same"), nil)
	require.NoError(t, err)
	second, nonce2, err := aead.Encrypt([]byte("same"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
	assert.NotEqual(t, first, second)
}

func TestNewAESGCM_InvalidKey(t *testing.T) {
	_, err := NewAESGCM(make([]byte, 31))
	assert.Error(t, err)
}

func TestNewChaCha20Poly1305_InvalidKey(t *testing.T) {
	_, err := NewChaCha20Poly1305(make([]byte, 31))
	assert.Error(t, err)
}
