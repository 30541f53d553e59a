package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trainhub/internal/common"
)

var secret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("alice", secret, time.Minute)
	require.NoError(t, err)

	username, err := GetUsernameFromToken(token, secret)
	require.NoError(t, err)
	require.Equal(t, "alice", username)
}

func TestGetUsernameFromToken_Expired(t *testing.T) {
	token, err := GenerateToken("alice", secret, -time.Minute)
	require.NoError(t, err)

	_, err = GetUsernameFromToken(token, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetUsernameFromToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken("alice", secret, time.Minute)
	require.NoError(t, err)

	_, err = GetUsernameFromToken(token, []byte("other-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUsernameFromToken_Garbage(t *testing.T) {
	_, err := GetUsernameFromToken("not.a.token", secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
}
