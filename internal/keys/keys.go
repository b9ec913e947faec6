// Package keys loads the root signing secret and derives the purpose-bound subkeys used to
// sign ephemeral credential tokens and vault access-log entries, and to encrypt and index
// actor personal data.
//
// The root secret comes from SIGNING_MASTER_KEY, either as base64 or, when a KMS provider is
// configured, as the base64 KMS ciphertext of the secret.
package keys

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// KeySize is the size in bytes of the master secret and of every derived subkey.
const KeySize = 32

// Purpose is the HKDF info string that binds a subkey to one use. The version suffix changes
// whenever the signing scheme changes.
type Purpose string

const (
	PurposeCredentialToken Purpose = "credential-token-signing-v1"
	PurposeVaultAccessLog  Purpose = "vault-access-log-signing-v1"
	PurposeActorPII        Purpose = "actor-pii-encryption-v1"
	PurposeActorEmailIndex Purpose = "actor-email-index-v1"
)

var (
	// ErrMasterKeyNotSet is returned when SIGNING_MASTER_KEY is empty.
	ErrMasterKeyNotSet = errors.New("signing master key is not set")

	// ErrInvalidMasterKeyBase64 is returned when the configured value is not valid base64.
	ErrInvalidMasterKeyBase64 = errors.New("signing master key is not valid base64")

	// ErrInvalidKeySize is returned when the decoded secret is not KeySize bytes.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrMasterKeyClosed is returned when deriving from a closed MasterKey.
	ErrMasterKeyClosed = errors.New("master key is closed")
)

// MasterKey holds the root secret in memory.
type MasterKey struct {
	key []byte
}

// NewMasterKey copies raw into a MasterKey. raw must be KeySize bytes.
func NewMasterKey(raw []byte) (*MasterKey, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(raw))
	}
	key := make([]byte, KeySize)
	copy(key, raw)
	return &MasterKey{key: key}, nil
}

// LoadMasterKey decodes the configured secret. With an empty keyURI the value is the base64
// secret itself; otherwise it is the base64 ciphertext and is decrypted with the KMS key.
func LoadMasterKey(ctx context.Context, kms KMSService, encoded, keyURI string) (*MasterKey, error) {
	if encoded == "" {
		return nil, ErrMasterKeyNotSet
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyBase64, err)
	}
	defer Zero(decoded)

	if keyURI == "" {
		return NewMasterKey(decoded)
	}

	keeper, err := kms.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing master key: %w", err)
	}
	defer Zero(plaintext)

	return NewMasterKey(plaintext)
}

// Derive returns the KeySize subkey bound to purpose using HKDF-SHA256.
func (m *MasterKey) Derive(purpose Purpose) ([]byte, error) {
	if m.key == nil {
		return nil, ErrMasterKeyClosed
	}

	reader := hkdf.New(sha256.New, m.key, nil, []byte(purpose))
	subkey := make([]byte, KeySize)
	if _, err := io.ReadFull(reader, subkey); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", purpose, err)
	}
	return subkey, nil
}

// Close zeroes the secret. Derive fails afterwards.
func (m *MasterKey) Close() {
	Zero(m.key)
	m.key = nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
