// Package security models the authentication state of one unit of work:
// the security context and the authentication tokens it holds.
package security

import (
	"context"

	"frontuser/internal/domain/account"
)

// Context is the read-only view of a unit of work's authentication state.
type Context interface {
	// CanBeInitialized reports whether tokens may be queried yet.
	CanBeInitialized() bool

	// ContextHash changes exactly when identity-relevant state changes.
	ContextHash() string

	// AuthenticationTokens returns the tokens in precedence order.
	AuthenticationTokens() []Token
}

// Token is a credential-carrying object produced during login.
type Token interface {
	AuthenticationProviderName() string
	IsAuthenticated() bool

	// Account is nil unless the token is authenticated.
	Account() *account.Account
}

type securityContextKey struct{}

// WithContext stores the security context in ctx.
func WithContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sc)
}

// FromContext returns the security context stored in ctx, or nil.
func FromContext(ctx context.Context) Context {
	if sc, ok := ctx.Value(securityContextKey{}).(Context); ok {
		return sc
	}
	return nil
}

// FirstAccount returns the account of the first authenticated token.
func FirstAccount(sc Context) *account.Account {
	for _, t := range sc.AuthenticationTokens() {
		if a := t.Account(); a != nil {
			return a
		}
	}
	return nil
}
