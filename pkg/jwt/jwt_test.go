package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("uid-123", AccessToken, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", claims.UID)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("uid-123", AccessToken, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken("uid-123", AccessToken, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, testSecret)
	assert.Error(t, err)
}

func TestIsTokenValidChecksType(t *testing.T) {
	access, err := GenerateToken("uid-123", AccessToken, testSecret, time.Hour)
	require.NoError(t, err)
	refresh, err := GenerateToken("uid-123", RefreshToken, testSecret, time.Hour)
	require.NoError(t, err)

	assert.True(t, IsTokenValid(access, testSecret, AccessToken))
	assert.False(t, IsTokenValid(access, testSecret, RefreshToken))
	assert.True(t, IsTokenValid(refresh, testSecret, RefreshToken))
	assert.False(t, IsTokenValid("garbage", testSecret, AccessToken))
}
