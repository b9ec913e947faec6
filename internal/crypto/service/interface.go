// Package service provides the AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) and the field
// cipher that seals actor names and emails before they reach the database.
package service

import (
	cryptoDomain "github.com/caseguard/caseguard/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// FieldCipher seals single text columns. A sealed value is bound to the record and column it
// was written for through the associated data, so it cannot be copied to another row.
type FieldCipher interface {
	// Seal encrypts plaintext for the column of the record identified by recordID.
	Seal(plaintext string, recordID []byte, column string) (string, error)

	// Open reverses Seal. It fails with ErrDecryptionFailed when the value was sealed for a
	// different record or column, or has been modified.
	Open(sealed string, recordID []byte, column string) (string, error)

	// BlindIndex returns a keyed, deterministic hex digest of value for equality lookups.
	// Case and surrounding whitespace are ignored.
	BlindIndex(value string) string
}
