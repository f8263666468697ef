package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))

	raw, expiresAt, err := svc.GenerateAccessToken("acct-1", "alice", "frontuser:login")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "acct-1", claims.Subject)
	assert.Equal(t, "alice", claims.Identifier)
	assert.Equal(t, "frontuser:login", claims.Provider)
}

func TestJWT_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))
	raw, _, err := svc.GenerateAccessToken("acct-1", "alice", "p")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTService(DefaultJWTConfig("other")).ValidateToken(raw)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := DefaultJWTConfig("secret")
		cfg.Issuer = "someone-else"
		_, err := NewJWTService(cfg).ValidateToken(raw)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		cfg := DefaultJWTConfig("secret")
		cfg.AccessTokenTTL = -time.Minute
		expired, _, err := NewJWTService(cfg).GenerateAccessToken("acct-1", "alice", "p")
		require.NoError(t, err)

		_, err = svc.ValidateToken(expired)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("no account", func(t *testing.T) {
		empty, _, err := svc.GenerateAccessToken("", "alice", "p")
		require.NoError(t, err)
		_, err = svc.ValidateToken(empty)
		assert.ErrorContains(t, err, "no account")
	})
}
