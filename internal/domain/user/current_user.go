// Package user answers "who is the current end-user" for a security context.
package user

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"frontuser/internal/core/security"
	"frontuser/internal/domain/party"
	"frontuser/pkg/logger"
)

var tracer = otel.Tracer("frontuser/user")

// runtimeCachePrefix namespaces cache keys derived from context hashes.
const runtimeCachePrefix = "sec-context-"

// ResolverMetrics observes resolver cache behaviour.
type ResolverMetrics interface {
	CacheHit()
	CacheMiss()
	Resolved(found bool)
}

type noopMetrics struct{}

func (noopMetrics) CacheHit()     {}
func (noopMetrics) CacheMiss()    {}
func (noopMetrics) Resolved(bool) {}

// CurrentUserResolver resolves the end-user of a security context and
// memoizes the answer per context hash for the resolver's lifetime.
// Create one per unit of work; entries are never evicted.
//
// Concurrent first lookups of the same key may each compute; the last
// write wins. The computation is deterministic for a fixed context state.
type CurrentUserResolver struct {
	partyService party.Service
	metrics      ResolverMetrics

	mu           sync.RWMutex
	runtimeCache map[string]*party.User
}

// ResolverOption configures a CurrentUserResolver.
type ResolverOption func(*CurrentUserResolver)

// WithMetrics attaches a metrics observer.
func WithMetrics(m ResolverMetrics) ResolverOption {
	return func(r *CurrentUserResolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// NewCurrentUserResolver creates a resolver with an empty cache.
func NewCurrentUserResolver(partyService party.Service, opts ...ResolverOption) *CurrentUserResolver {
	r := &CurrentUserResolver{
		partyService: partyService,
		metrics:      noopMetrics{},
		runtimeCache: make(map[string]*party.User),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the current user of sc, or nil when there is none.
//
// An uninitialized context yields nil without touching the cache. Otherwise
// the first token whose account is assigned to a User wins, and the result,
// nil included, is cached under the context hash. Party service errors are
// returned as is and leave the cache untouched.
func (r *CurrentUserResolver) Resolve(ctx context.Context, sc security.Context) (*party.User, error) {
	if sc == nil || !sc.CanBeInitialized() {
		return nil, nil
	}

	key := runtimeCachePrefix + sc.ContextHash()
	if u, ok := r.cached(key); ok {
		r.metrics.CacheHit()
		logger.Debug(ctx, "current user served from runtime cache", "cache_key", key)
		return u, nil
	}
	r.metrics.CacheMiss()

	ctx, span := tracer.Start(ctx, "user.resolve_current_user",
		trace.WithAttributes(attribute.String("security.cache_key", key)))
	defer span.End()

	u, err := r.resolveFromTokens(ctx, sc.AuthenticationTokens())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	r.mu.Lock()
	r.runtimeCache[key] = u
	r.mu.Unlock()

	r.metrics.Resolved(u != nil)
	span.SetAttributes(attribute.Bool("user.found", u != nil))
	if u != nil {
		logger.Debug(ctx, "current user resolved", "cache_key", key, "user_id", u.ID)
	} else {
		logger.Debug(ctx, "no current user for security context", "cache_key", key)
	}

	return u, nil
}

func (r *CurrentUserResolver) cached(key string) (*party.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.runtimeCache[key]
	return u, ok
}

// resolveFromTokens walks tokens in order; first User wins.
func (r *CurrentUserResolver) resolveFromTokens(ctx context.Context, tokens []security.Token) (*party.User, error) {
	for _, token := range tokens {
		acct := token.Account()
		if acct == nil {
			continue
		}

		p, err := r.partyService.AssignedPartyOfAccount(ctx, acct)
		if err != nil {
			return nil, err
		}

		// Only User parties qualify; organizations and unknown kinds are skipped.
		if u, ok := p.(*party.User); ok && u != nil {
			return u, nil
		}
	}
	return nil, nil
}
