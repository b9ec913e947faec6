// Package domain names the authenticated ciphers used to protect personal data at rest.
package domain

// Algorithm is an AEAD cipher. Both supported ciphers take a 32-byte key and a 12-byte nonce.
type Algorithm string

const (
	// AESGCM is AES-256-GCM, fastest on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, for hosts without AES hardware support.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// IsValid reports whether a is a supported algorithm.
func (a Algorithm) IsValid() bool {
	return a == AESGCM || a == ChaCha20
}
