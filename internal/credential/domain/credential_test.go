package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEphemeralCredential_State(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	credential := &EphemeralCredential{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, credential.IsExpiredAt(now))
	assert.True(t, credential.IsExpiredAt(now.Add(time.Hour)))
	assert.False(t, credential.IsUsed())

	credential.UsedAt = &now
	assert.True(t, credential.IsUsed())
}
