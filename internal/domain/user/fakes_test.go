package user

import (
	"context"
	"sync"

	"frontuser/internal/core/id"
	"frontuser/internal/core/security"
	"frontuser/internal/domain/account"
	"frontuser/internal/domain/party"
)

type fakeToken struct {
	acct *account.Account
}

func (t fakeToken) AuthenticationProviderName() string { return "test" }
func (t fakeToken) IsAuthenticated() bool              { return t.acct != nil }
func (t fakeToken) Account() *account.Account          { return t.acct }

type fakeContext struct {
	ready  bool
	hash   string
	tokens []security.Token

	tokenReads int
}

func (c *fakeContext) CanBeInitialized() bool { return c.ready }
func (c *fakeContext) ContextHash() string    { return c.hash }
func (c *fakeContext) AuthenticationTokens() []security.Token {
	c.tokenReads++
	return c.tokens
}

// fakeParties maps account ids to parties and counts lookups.
type fakeParties struct {
	mu      sync.Mutex
	byAcct  map[id.ID]party.Party
	calls   int
	failFor map[id.ID]error
}

func newFakeParties() *fakeParties {
	return &fakeParties{byAcct: map[id.ID]party.Party{}, failFor: map[id.ID]error{}}
}

func (f *fakeParties) AssignedPartyOfAccount(_ context.Context, acct *account.Account) (party.Party, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.failFor[acct.ID]; err != nil {
		return nil, err
	}
	return f.byAcct[acct.ID], nil
}

func (f *fakeParties) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// accountWith registers acct -> p and returns a token for it.
func (f *fakeParties) accountWith(p party.Party) fakeToken {
	acct := account.New("acct", account.DefaultProvider, "")
	if p != nil {
		f.byAcct[acct.ID] = p
	}
	return fakeToken{acct: acct}
}

type countingMetrics struct {
	hits, misses, found, absent int
}

func (m *countingMetrics) CacheHit()  { m.hits++ }
func (m *countingMetrics) CacheMiss() { m.misses++ }
func (m *countingMetrics) Resolved(found bool) {
	if found {
		m.found++
	} else {
		m.absent++
	}
}
