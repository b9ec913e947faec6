// Package service provides secret hashing and bearer token generation for actors. The
// hasher is shared with ephemeral credentials.
package service

// SecretService generates and verifies hashed secrets.
type SecretService interface {
	// GenerateSecret returns a fresh random secret and its argon2id hash. The plain value
	// is shown once and never stored.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret reports whether plainSecret matches the hash in constant time.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService generates opaque bearer tokens and the hash they are looked up by.
type TokenService interface {
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken returns the hex SHA-256 of a plain token.
	HashToken(plainToken string) string
}
