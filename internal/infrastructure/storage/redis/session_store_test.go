package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontuser/internal/domain/auth"
)

// unreachable points at a port nothing listens on so every command fails fast.
func unreachable(t *testing.T) *goredis.Client {
	t.Helper()
	c := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "session:abc", sessionKey("abc"))
}

func TestSessionStore_CreateValidates(t *testing.T) {
	store := NewSessionStore(unreachable(t))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	err := store.Create(context.Background(), auth.Session{AccountID: "a", ExpiresAt: now.Add(time.Hour)})
	assert.ErrorContains(t, err, "missing id")

	err = store.Create(context.Background(), auth.Session{ID: "s", AccountID: "a", ExpiresAt: now})
	assert.ErrorContains(t, err, "must be in the future")
}

func TestSessionStore_GetSurfacesConnectionErrors(t *testing.T) {
	store := NewSessionStore(unreachable(t))

	sess, err := store.Get(context.Background(), "s")
	require.Error(t, err)
	assert.Nil(t, sess)
}
