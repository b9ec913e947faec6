// Package service provides the HMAC signer that makes vault access log entries tamper-evident.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	vaultDomain "github.com/caseguard/caseguard/internal/vault/domain"
)

// AccessLogSigner signs and verifies access log entries.
type AccessLogSigner interface {
	// Sign returns the HMAC-SHA256 of the entry's canonical form.
	Sign(entry *vaultDomain.IdentityAccessLog) []byte

	// Verify returns ErrSignatureInvalid when entry.Signature does not match.
	Verify(entry *vaultDomain.IdentityAccessLog) error
}

type accessLogSigner struct {
	key []byte
}

// NewAccessLogSigner creates a signer from a key derived for vault access logs.
func NewAccessLogSigner(key []byte) (AccessLogSigner, error) {
	if len(key) < 32 {
		return nil, fmt.Errorf("access log signing key must be at least 32 bytes, got %d", len(key))
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &accessLogSigner{key: k}, nil
}

// canonicalize encodes id || accessed_by || pseudonym || reason || accessed_at. Strings are
// length-prefixed so field boundaries are unambiguous. The timestamp is taken at microsecond
// precision, which both stores keep.
func canonicalize(entry *vaultDomain.IdentityAccessLog) []byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, entry.ID[:]...)
	buf = append(buf, entry.AccessedBy[:]...)
	buf = appendLengthPrefixed(buf, []byte(entry.Pseudonym))
	buf = appendLengthPrefixed(buf, []byte(entry.AccessReason))
	buf = binary.BigEndian.AppendUint64(buf, uint64(entry.AccessedAt.UnixMicro()))
	return buf
}

func appendLengthPrefixed(buf []byte, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func (s *accessLogSigner) Sign(entry *vaultDomain.IdentityAccessLog) []byte {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(canonicalize(entry))
	return mac.Sum(nil)
}

func (s *accessLogSigner) Verify(entry *vaultDomain.IdentityAccessLog) error {
	if !hmac.Equal(entry.Signature, s.Sign(entry)) {
		return vaultDomain.ErrSignatureInvalid
	}
	return nil
}
