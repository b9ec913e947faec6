package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	cryptoDomain "github.com/caseguard/caseguard/internal/crypto/domain"
)

const (
	nonceSize      = 12
	fieldSeparator = "$"
)

// AEADFieldCipher implements FieldCipher. Sealed values have the form
// "<algorithm>$<base64url(nonce || ciphertext)>", so rows written under a previous algorithm
// still open after PII_ENCRYPTION_ALGORITHM changes.
type AEADFieldCipher struct {
	active   cryptoDomain.Algorithm
	ciphers  map[cryptoDomain.Algorithm]AEAD
	indexKey []byte
}

// NewFieldCipher builds a field cipher that seals with alg. encryptionKey and indexKey must be
// distinct 32-byte keys; both are copied.
func NewFieldCipher(
	manager AEADManager,
	encryptionKey, indexKey []byte,
	alg cryptoDomain.Algorithm,
) (*AEADFieldCipher, error) {
	if !alg.IsValid() {
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
	if len(indexKey) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	ciphers := make(map[cryptoDomain.Algorithm]AEAD, 2)
	for _, candidate := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		aead, err := manager.CreateCipher(encryptionKey, candidate)
		if err != nil {
			return nil, err
		}
		ciphers[candidate] = aead
	}

	return &AEADFieldCipher{
		active:   alg,
		ciphers:  ciphers,
		indexKey: append([]byte(nil), indexKey...),
	}, nil
}

func (f *AEADFieldCipher) Seal(plaintext string, recordID []byte, column string) (string, error) {
	ciphertext, nonce, err := f.ciphers[f.active].Encrypt([]byte(plaintext), associatedData(recordID, column))
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, len(nonce)+len(ciphertext))
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)
	return string(f.active) + fieldSeparator + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (f *AEADFieldCipher) Open(sealed string, recordID []byte, column string) (string, error) {
	alg, encoded, ok := strings.Cut(sealed, fieldSeparator)
	if !ok {
		return "", cryptoDomain.ErrMalformedCiphertext
	}
	aead, known := f.ciphers[cryptoDomain.Algorithm(alg)]
	if !known {
		return "", cryptoDomain.ErrMalformedCiphertext
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(payload) <= nonceSize {
		return "", cryptoDomain.ErrMalformedCiphertext
	}

	plaintext, err := aead.Decrypt(payload[nonceSize:], payload[:nonceSize], associatedData(recordID, column))
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}

func (f *AEADFieldCipher) BlindIndex(value string) string {
	mac := hmac.New(sha256.New, f.indexKey)
	mac.Write([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(mac.Sum(nil))
}

// associatedData is recordID followed by the column name.
func associatedData(recordID []byte, column string) []byte {
	aad := make([]byte, 0, len(recordID)+1+len(column))
	aad = append(aad, recordID...)
	aad = append(aad, ':')
	return append(aad, column...)
}
