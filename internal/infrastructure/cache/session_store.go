// Package cache provides an in-process session store for single-instance
// deployments and local development, used when Redis is not configured.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"frontuser/internal/domain/auth"
	"frontuser/pkg/logger"
)

// SessionStore implements auth.SessionStore in memory. A janitor goroutine
// started by Start drops expired entries; Get never returns an expired one.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]auth.Session
	now      func() time.Time

	// Lifecycle
	lifecycleMu sync.Mutex
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]auth.Session),
		now:      time.Now,
	}
}

// Create stores the session, replacing any previous one with the same ID.
func (s *SessionStore) Create(_ context.Context, sess auth.Session) error {
	if sess.ID == "" || sess.AccountID == "" {
		return fmt.Errorf("session: missing id or account id")
	}
	if !sess.ExpiresAt.After(s.now()) {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return nil
}

// Get returns nil, nil for unknown or expired sessions.
func (s *SessionStore) Get(_ context.Context, sessionID string) (*auth.Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok || sess.Expired(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

// Delete removes the session if present.
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Start launches the janitor. Calling it twice is a no-op.
func (s *SessionStore) Start(ctx context.Context, interval time.Duration) {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if s.started {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	log := logger.FromContext(ctx).WithComponent("session_janitor")
	s.wg.Add(1)
	go s.janitor(ctx, log, interval)
	log.Infow("in-memory session store started", "sweep_interval", interval)
}

// Stop halts the janitor and waits for it to exit.
func (s *SessionStore) Stop() {
	s.lifecycleMu.Lock()
	if !s.started {
		s.lifecycleMu.Unlock()
		return
	}
	cancel := s.cancel
	s.started = false
	s.cancel = nil
	s.lifecycleMu.Unlock()

	cancel()
	s.wg.Wait()
}

func (s *SessionStore) janitor(ctx context.Context, log *logger.Logger, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				log.Debugw("expired sessions removed", "count", n)
			}
		}
	}
}

func (s *SessionStore) sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sid, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, sid)
			removed++
		}
	}
	return removed
}
