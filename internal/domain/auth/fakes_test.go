package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/domain/account"
)

type memAccounts struct {
	mu        sync.Mutex
	byID      map[id.ID]account.Account
	getErr    error
	saveCalls int
}

func newMemAccounts(accts ...*account.Account) *memAccounts {
	m := &memAccounts{byID: make(map[id.ID]account.Account)}
	for _, a := range accts {
		m.byID[a.ID] = *a
	}
	return m
}

func (m *memAccounts) Create(_ context.Context, acct *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[acct.ID] = *acct
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, accountID id.ID) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.byID[accountID]
	if !ok {
		return nil, apperror.NewNotFound("account", accountID.String())
	}
	return &a, nil
}

func (m *memAccounts) GetByIdentifier(_ context.Context, identifier, provider string) (*account.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, a := range m.byID {
		if a.Identifier == identifier && a.AuthenticationProviderName == provider {
			return &a, nil
		}
	}
	return nil, apperror.NewNotFound("account", identifier)
}

func (m *memAccounts) UpdateAuthenticationStats(_ context.Context, acct *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	m.byID[acct.ID] = *acct
	return nil
}

func (m *memAccounts) stored(accountID id.ID) account.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[accountID]
}

type memSessions struct {
	mu       sync.Mutex
	sessions  map[string]Session
	getErr    error
	deleteErr error
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]Session)}
}

func (m *memSessions) Create(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *memSessions) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// recordingTx counts transactions and runs fn inline.
type recordingTx struct {
	calls int
}

func (r *recordingTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

var errStoreDown = errors.New("store down")

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

type memAudit struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (m *memAudit) Record(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memAudit) types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EventType, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Type)
	}
	return out
}
