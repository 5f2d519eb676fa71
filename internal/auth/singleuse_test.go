package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueSingleUse(t *testing.T) {
	secret, digest, expiresAt, err := IssueSingleUse(ResetTokenTTL)
	require.NoError(t, err)

	assert.Len(t, secret, 40) // 20 random bytes, hex-encoded
	assert.Len(t, digest, 64) // sha256 hex
	assert.Equal(t, HashToken(secret), digest)
	assert.WithinDuration(t, time.Now().UTC().Add(ResetTokenTTL), expiresAt, 5*time.Second)
}

func TestIssueSingleUse_SecretsAreUnique(t *testing.T) {
	s1, _, _, err := IssueSingleUse(ResetTokenTTL)
	require.NoError(t, err)
	s2, _, _, err := IssueSingleUse(ResetTokenTTL)
	require.NoError(t, err)

	assert.NotEqual(t, s1, s2)
}

func TestHashToken_Deterministic(t *testing.T) {
	secret, digest, _, err := IssueSingleUse(VerifyTokenTTL)
	require.NoError(t, err)

	assert.Equal(t, digest, HashToken(secret))
	assert.NotEqual(t, digest, HashToken("other-secret"))
}
