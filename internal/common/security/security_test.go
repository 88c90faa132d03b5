package security

import (
	"context"
	"os"
	"testing"
	"time"

	"sql_arena/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.Load()
	InitJWT()
	os.Exit(m.Run())
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestGenerateToken_WithUsernameClaim(t *testing.T) {
	tokenString, err := GenerateToken("user-1", "alice", time.Hour)
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)

	userID, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "alice", GetUsernameFromClaims(claims))
}

func TestGenerateToken_FederatedOmitsUsername(t *testing.T) {
	tokenString, err := GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	token, err := jwtauth.VerifyToken(TokenAuth, tokenString)
	require.NoError(t, err)

	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	assert.Empty(t, GetUsernameFromClaims(claims))
}

func TestVerifyToken_RejectsExpired(t *testing.T) {
	tokenString, err := GenerateToken("user-1", "alice", -time.Hour)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(TokenAuth, tokenString)
	assert.Error(t, err)
}

func TestGetUserIDFromClaims_Missing(t *testing.T) {
	_, err := GetUserIDFromClaims(map[string]interface{}{})
	assert.Error(t, err)

	_, err = GetUserIDFromClaims(map[string]interface{}{"user_id": 42})
	assert.Error(t, err)
}
