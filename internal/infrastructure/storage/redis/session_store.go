package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"frontuser/internal/domain/auth"
)

const sessionPrefix = "session:"

// SessionStore implements auth.SessionStore. Entries expire in Redis at the
// session's ExpiresAt.
type SessionStore struct {
	client goredis.Cmdable
	now    func() time.Time
}

var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client goredis.Cmdable) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

func sessionKey(sessionID string) string {
	return sessionPrefix + sessionID
}

// Create stores the session with a TTL ending at ExpiresAt.
func (s *SessionStore) Create(ctx context.Context, sess auth.Session) error {
	if sess.ID == "" || sess.AccountID == "" {
		return fmt.Errorf("session: missing id or account id")
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	return s.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err()
}

// Get returns nil, nil when the session is unknown or has expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*auth.Session, error) {
	val, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	var sess auth.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return &sess, nil
}

// Delete removes the session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
