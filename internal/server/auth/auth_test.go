package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(7, "op", "operator", secret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(token, secret)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims.UserID)
	require.Equal(t, "op", claims.Username)
	require.Equal(t, "operator", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(7, "op", "operator", []byte("a"), time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, []byte("b"))
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("s")
	token, err := GenerateToken(1, "op", "viewer", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, secret)
	require.Error(t, err)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	encoded, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.True(t, VerifyPassword("hunter2", encoded))
	require.False(t, VerifyPassword("hunter3", encoded))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	require.False(t, VerifyPassword("x", "not-an-encoded-hash"))
	require.False(t, VerifyPassword("x", "argon2id$!!$!!"))
}
