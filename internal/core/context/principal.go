// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Principal is the log-facing view of who a request runs as.
// It is filled in step by step: the context hash once the security context
// is initialized, the user id once the current user has been resolved.
type Principal struct {
	ContextHash string
	AccountID   string
	UserID      string
}

type principalKey struct{}

// WithPrincipal adds Principal to context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// GetPrincipal returns Principal from context or nil.
func GetPrincipal(ctx context.Context) *Principal {
	if v, ok := ctx.Value(principalKey{}).(*Principal); ok {
		return v
	}
	return nil
}
