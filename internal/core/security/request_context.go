package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

const anonymousHash = "anonymous"

// RequestContext is the security context of one request or CLI run.
// Tokens are collected first; queries are allowed after Initialize.
type RequestContext struct {
	mu          sync.RWMutex
	initialized bool
	tokens      []*AuthenticationToken
}

var _ Context = (*RequestContext)(nil)

// NewRequestContext returns an empty, uninitialized context.
func NewRequestContext() *RequestContext {
	return &RequestContext{}
}

// AddToken appends a token; order of calls is token precedence.
func (c *RequestContext) AddToken(t *AuthenticationToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = append(c.tokens, t)
}

// Initialize marks token collection as complete.
func (c *RequestContext) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialized = true
}

// CanBeInitialized implements Context.
func (c *RequestContext) CanBeInitialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

// AuthenticationTokens implements Context. The slice is a copy.
func (c *RequestContext) AuthenticationTokens() []Token {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Token, len(c.tokens))
	for i, t := range c.tokens {
		out[i] = t
	}
	return out
}

// ContextHash implements Context: a digest of the authenticated
// (provider, account) pairs in token order.
func (c *RequestContext) ContextHash() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	components := make([]string, 0, len(c.tokens))
	for _, t := range c.tokens {
		if a := t.Account(); a != nil {
			components = append(components, t.AuthenticationProviderName()+":"+a.ID.String())
		}
	}
	if len(components) == 0 {
		return anonymousHash
	}

	sum := sha256.Sum256([]byte(strings.Join(components, "|")))
	return hex.EncodeToString(sum[:])
}

// Logout drops authentication from every token.
func (c *RequestContext) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tokens {
		t.Reset()
	}
}

// IsAuthenticated reports whether any token is authenticated.
func (c *RequestContext) IsAuthenticated() bool {
	return FirstAccount(c) != nil
}
