package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"frontuser/internal/domain/auth"
	"frontuser/pkg/logger"
)

func newStoreAt(now *time.Time) *SessionStore {
	s := NewSessionStore()
	s.now = func() time.Time { return *now }
	return s
}

func TestSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newStoreAt(&now)

	sess := auth.Session{ID: "s1", AccountID: "a1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a1", got.AccountID)

	require.NoError(t, store.Delete(ctx, "s1"))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Delete(ctx, "missing"))
}

func TestSessionStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newStoreAt(&now)

	require.NoError(t, store.Create(ctx, auth.Session{ID: "s1", AccountID: "a1", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Create(ctx, auth.Session{ID: "s2", AccountID: "a2", ExpiresAt: now.Add(time.Hour)}))

	now = now.Add(2 * time.Minute)

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got, "expired session must not be returned")

	assert.Equal(t, 1, store.sweep())
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_CreateValidates(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store := newStoreAt(&now)

	assert.Error(t, store.Create(ctx, auth.Session{AccountID: "a", ExpiresAt: now.Add(time.Hour)}))
	assert.Error(t, store.Create(ctx, auth.Session{ID: "s", AccountID: "a", ExpiresAt: now}))
}

func TestSessionStore_StartStop(t *testing.T) {
	store := NewSessionStore()
	store.Start(context.Background(), 10*time.Millisecond)
	store.Start(context.Background(), 10*time.Millisecond)
	store.Stop()
	store.Stop()
}

func TestSessionStore_JanitorLogsAsComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	store := NewSessionStore()
	require.NoError(t, store.Create(ctx, auth.Session{
		ID:        "s1",
		AccountID: "a1",
		ExpiresAt: time.Now().Add(20 * time.Millisecond),
	}))

	store.Start(ctx, 10*time.Millisecond)
	defer store.Stop()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("expired sessions removed").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Zero(t, store.Len())

	for _, entry := range logs.All() {
		assert.Equal(t, "session_janitor", entry.ContextMap()["component"], entry.Message)
	}
}
