package user

import (
	"context"

	"frontuser/internal/core/security"
	"frontuser/internal/domain/party"
)

// LookupFunc returns the current user.
type LookupFunc func(ctx context.Context) (*party.User, error)

// Interceptor wraps GetCurrentUser. next is the rest of the chain, ending in
// the service's default implementation; an interceptor may skip it.
type Interceptor func(ctx context.Context, next LookupFunc) (*party.User, error)

// Service is the user service of one unit of work.
type Service struct {
	securityContext security.Context
	partyService    party.Service
	interceptors    []Interceptor
}

// NewService creates a user service bound to a security context.
func NewService(sc security.Context, partyService party.Service) *Service {
	return &Service{
		securityContext: sc,
		partyService:    partyService,
	}
}

// Use appends interceptors. The first registered runs outermost.
func (s *Service) Use(interceptors ...Interceptor) *Service {
	s.interceptors = append(s.interceptors, interceptors...)
	return s
}

// SecurityContext returns the bound security context.
func (s *Service) SecurityContext() security.Context {
	return s.securityContext
}

// GetCurrentUser runs the interceptor chain.
func (s *Service) GetCurrentUser(ctx context.Context) (*party.User, error) {
	next := LookupFunc(s.defaultCurrentUser)
	for i := len(s.interceptors) - 1; i >= 0; i-- {
		interceptor, inner := s.interceptors[i], next
		next = func(ctx context.Context) (*party.User, error) {
			return interceptor(ctx, inner)
		}
	}
	return next(ctx)
}

// defaultCurrentUser only looks at the first authenticated token; if that
// account's party is not a User there is no current user.
func (s *Service) defaultCurrentUser(ctx context.Context) (*party.User, error) {
	if s.securityContext == nil || !s.securityContext.CanBeInitialized() {
		return nil, nil
	}

	acct := security.FirstAccount(s.securityContext)
	if acct == nil {
		return nil, nil
	}

	p, err := s.partyService.AssignedPartyOfAccount(ctx, acct)
	if err != nil {
		return nil, err
	}
	if u, ok := p.(*party.User); ok {
		return u, nil
	}
	return nil, nil
}

// ResolverInterceptor replaces the default lookup with r. It never calls next.
func ResolverInterceptor(r *CurrentUserResolver, sc security.Context) Interceptor {
	return func(ctx context.Context, _ LookupFunc) (*party.User, error) {
		return r.Resolve(ctx, sc)
	}
}

// NewPatchedService builds a Service whose GetCurrentUser is answered by a
// fresh resolver scoped to this service.
func NewPatchedService(sc security.Context, partyService party.Service, opts ...ResolverOption) *Service {
	resolver := NewCurrentUserResolver(partyService, opts...)
	return NewService(sc, partyService).Use(ResolverInterceptor(resolver, sc))
}

type serviceKey struct{}

// WithService stores the request's user service in ctx.
func WithService(ctx context.Context, s *Service) context.Context {
	return context.WithValue(ctx, serviceKey{}, s)
}

// ServiceFromContext returns the request's user service, or nil.
func ServiceFromContext(ctx context.Context) *Service {
	if s, ok := ctx.Value(serviceKey{}).(*Service); ok {
		return s
	}
	return nil
}
