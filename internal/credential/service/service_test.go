package service

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credentialDomain "github.com/caseguard/caseguard/internal/credential/domain"
)

func TestGeneratePassword_Composition(t *testing.T) {
	for range 10000 {
		password, err := GeneratePassword()
		require.NoError(t, err)

		require.Len(t, password, PasswordLength)
		require.True(t, HasAllCharacterClasses(password), password)
		for _, c := range password {
			require.True(t, strings.ContainsRune(passwordAlphabet, c), password)
		}
	}
}

func TestHasAllCharacterClasses(t *testing.T) {
	assert.True(t, HasAllCharacterClasses("Aa1!"))
	assert.False(t, HasAllCharacterClasses("aa1!"))
	assert.False(t, HasAllCharacterClasses("AA1!"))
	assert.False(t, HasAllCharacterClasses("Aab!"))
	assert.False(t, HasAllCharacterClasses("Aa1b"))
}

func TestGenerateAddress(t *testing.T) {
	address, err := GenerateAddress("system.temp")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^case-[0-9a-f]{8}@system\.temp$`), address)
}

func newTestTokenSigner(t *testing.T, fill byte) TokenSigner {
	t.Helper()
	signer, err := NewTokenSigner(bytes.Repeat([]byte{fill}, 32))
	require.NoError(t, err)
	return signer
}

func TestTokenSigner_SignParse(t *testing.T) {
	signer := newTestTokenSigner(t, 0x01)
	now := time.Now().UTC()
	claims := credentialDomain.Claims{
		Pseudonym: "anon_0123456789abcdef0123456789abcdef",
		CaseID:    uuid.Must(uuid.NewV7()),
		Address:   "case-0a1b2c3d@system.temp",
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}

	t.Run("Success_RoundTrip", func(t *testing.T) {
		token, err := signer.Sign(claims, now)
		require.NoError(t, err)

		parsed, err := signer.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, claims.Pseudonym, parsed.Pseudonym)
		assert.Equal(t, claims.CaseID, parsed.CaseID)
		assert.Equal(t, claims.Address, parsed.Address)
		assert.WithinDuration(t, claims.ExpiresAt, parsed.ExpiresAt, time.Second)
	})

	t.Run("Success_UniqueTokenIDs", func(t *testing.T) {
		first, err := signer.Sign(claims, now)
		require.NoError(t, err)
		second, err := signer.Sign(claims, now)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("Error_WrongKey", func(t *testing.T) {
		token, err := newTestTokenSigner(t, 0x02).Sign(claims, now)
		require.NoError(t, err)

		_, err = signer.Parse(token)
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidCredential)
	})

	t.Run("Error_Expired", func(t *testing.T) {
		expired := claims
		expired.ExpiresAt = now.Add(-time.Minute)
		token, err := signer.Sign(expired, now.Add(-time.Hour))
		require.NoError(t, err)

		_, err = signer.Parse(token)
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialExpired)
	})

	t.Run("Error_WrongType", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
			Pseudonym: claims.Pseudonym,
			CaseID:    claims.CaseID.String(),
			Type:      "session",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			},
		})
		signed, err := token.SignedString(bytes.Repeat([]byte{0x01}, 32))
		require.NoError(t, err)

		_, err = signer.Parse(signed)
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidCredential)
	})

	t.Run("Error_AlgorithmNone", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, accessClaims{
			Pseudonym: claims.Pseudonym,
			CaseID:    claims.CaseID.String(),
			Type:      credentialDomain.TokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			},
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.Parse(signed)
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidCredential)
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		_, err := signer.Parse("not-a-token")
		assert.ErrorIs(t, err, credentialDomain.ErrInvalidCredential)
	})
}

func TestNewTokenSigner_ShortKey(t *testing.T) {
	_, err := NewTokenSigner([]byte("short"))
	assert.Error(t, err)
}
