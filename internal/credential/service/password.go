// Package service provides the generators and the token signer behind ephemeral credentials.
package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// PasswordLength is the length of generated passwords.
	PasswordLength = 16

	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*"

	passwordAlphabet = upperChars + lowerChars + digitChars + symbolChars
)

// GeneratePassword returns a PasswordLength password drawn uniformly from
// A-Z a-z 0-9 !@#$%^&*. Candidates missing one of the four classes are discarded and drawn
// again, so the result keeps a uniform distribution over compliant passwords.
func GeneratePassword() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, PasswordLength)
	for {
		for i := range buf {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return "", fmt.Errorf("failed to generate password: %w", err)
			}
			buf[i] = passwordAlphabet[n.Int64()]
		}
		password := string(buf)
		if HasAllCharacterClasses(password) {
			return password, nil
		}
	}
}

// HasAllCharacterClasses reports whether s has an upper case letter, a lower case letter, a
// digit and one of !@#$%^&*.
func HasAllCharacterClasses(s string) bool {
	return strings.ContainsAny(s, upperChars) &&
		strings.ContainsAny(s, lowerChars) &&
		strings.ContainsAny(s, digitChars) &&
		strings.ContainsAny(s, symbolChars)
}

// GenerateAddress returns a synthetic address "case-<8 hex>@domain".
func GenerateAddress(domain string) (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate address: %w", err)
	}
	return "case-" + hex.EncodeToString(b) + "@" + domain, nil
}
