package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager("access-secret-for-tests", "refresh-secret-for-tests", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("u-1", "ana@example.com", "moderator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestTokenKinds_NotInterchangeable(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken("u-1", "ana@example.com", "user")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	// A refresh token must never validate as an access token, and vice
	// versa, because the kinds are signed with distinct secrets.
	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewJWTManager("access-secret-for-tests", "refresh-secret-for-tests", -time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("u-1", "ana@example.com", "user")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("a-completely-different-secret", "another-one", 15*time.Minute, time.Hour)

	token, err := m.GenerateAccessToken("u-1", "ana@example.com", "user")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	m := newTestManager()

	_, err := m.ValidateAccessToken("not.a.jwt")
	assert.Error(t, err)
}
