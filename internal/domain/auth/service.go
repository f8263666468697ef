package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/core/security"
	"frontuser/internal/core/tx"
	"frontuser/internal/domain/account"
	"frontuser/pkg/logger"
)

// Authentication provider names of the tokens this package produces.
const (
	ProviderSession = "frontuser:session"
	ProviderBearer  = "frontuser:bearer"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	Provider         string
	MaxLoginAttempts int
	LockDuration     time.Duration
	SessionTTL       time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Provider:         account.DefaultProvider,
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		SessionTTL:       24 * time.Hour,
	}
}

// Credentials for login.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType"`
	SessionID   string           `json:"-"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Account     *account.Account `json:"account"`
}

// Service authenticates accounts.
type Service struct {
	accounts   account.Repository
	sessions   SessionStore
	jwtService *JWTService
	txManager  tx.Manager
	config     ServiceConfig
	audit      AuditLog
	now        func() time.Time
}

// NewService creates a new auth service. txManager may be nil.
func NewService(
	accounts account.Repository,
	sessions SessionStore,
	jwtService *JWTService,
	txManager tx.Manager,
	config ServiceConfig,
) *Service {
	return &Service{
		accounts:   accounts,
		sessions:   sessions,
		jwtService: jwtService,
		txManager:  txManager,
		config:     config,
		now:        time.Now,
	}
}

// Login verifies credentials, opens a session and issues an access token.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if creds.Identifier == "" {
		return nil, apperror.NewValidation("identifier is required").WithDetail("field", "identifier")
	}

	acct, err := s.accounts.GetByIdentifier(ctx, creds.Identifier, s.config.Provider)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.record(ctx, failedEvent(creds.Identifier, nil, ReasonUnknownAccount))
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	now := s.now()
	if !acct.IsActive(now) {
		s.record(ctx, failedEvent(acct.Identifier, &acct.ID, ReasonExpired))
		return nil, apperror.NewForbidden("account has expired")
	}
	if acct.IsLocked(now) {
		s.record(ctx, failedEvent(acct.Identifier, &acct.ID, ReasonLocked))
		return nil, apperror.NewAccountLocked(acct.Identifier)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.CredentialsSource), []byte(creds.Password)); err != nil {
		acct.RecordFailedAuthentication(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.saveStats(ctx, acct); err != nil {
			logger.Warn(ctx, "failed to record failed authentication", "account_id", acct.ID, "error", err)
		}
		s.record(ctx, failedEvent(acct.Identifier, &acct.ID, ReasonBadPassword))
		if acct.IsLocked(now) {
			s.record(ctx, Event{
				Type:       EventAccountLocked,
				AccountID:  &acct.ID,
				Identifier: acct.Identifier,
				Details: map[string]any{
					"failed_attempts": acct.FailedAuthenticationCount,
					"locked_until":    acct.LockedUntil,
				},
			})
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	acct.RecordSuccessfulAuthentication(now)
	if err := s.saveStats(ctx, acct); err != nil {
		return nil, fmt.Errorf("record authentication: %w", err)
	}

	sessionID, err := GenerateSessionID()
	if err != nil {
		return nil, err
	}
	sess := Session{
		ID:        sessionID,
		AccountID: acct.ID.String(),
		Provider:  acct.AuthenticationProviderName,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	accessToken, _, err := s.jwtService.GenerateAccessToken(acct.ID.String(), acct.Identifier, acct.AuthenticationProviderName)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info(ctx, "account authenticated",
		"account_id", acct.ID,
		"identifier", acct.Identifier)
	s.record(ctx, Event{Type: EventLoginSucceeded, AccountID: &acct.ID, Identifier: acct.Identifier})

	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		SessionID:   sessionID,
		ExpiresAt:   sess.ExpiresAt,
		Account:     acct,
	}, nil
}

// Logout deletes the session. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	var owner *Session
	if s.audit != nil {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			logger.Warn(ctx, "failed to load session before logout", "error", err)
		}
		owner = sess
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	if owner != nil {
		ev := Event{Type: EventLogout, Provider: owner.Provider}
		if accountID, err := id.Parse(owner.AccountID); err == nil {
			ev.AccountID = &accountID
			if acct, err := s.accounts.GetByID(ctx, accountID); err == nil {
				ev.Identifier = acct.Identifier
			}
		}
		s.record(ctx, ev)
	}
	return nil
}

// BuildSecurityContext turns presented credentials into an initialized
// security context. The session token precedes the bearer token. Invalid,
// expired or unknown credentials yield failed tokens; only infrastructure
// failures are returned as errors.
func (s *Service) BuildSecurityContext(ctx context.Context, sessionID, bearer string) (*security.RequestContext, error) {
	sc := security.NewRequestContext()

	if sessionID != "" {
		tok := security.NewToken(ProviderSession)
		acct, err := s.accountForSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		tok.Authenticate(acct)
		sc.AddToken(tok)
	}

	if bearer != "" {
		tok := security.NewToken(ProviderBearer)
		acct, err := s.accountForBearer(ctx, bearer)
		if err != nil {
			return nil, err
		}
		tok.Authenticate(acct)
		sc.AddToken(tok)
	}

	sc.Initialize()
	return sc, nil
}

func (s *Service) accountForSession(ctx context.Context, sessionID string) (*account.Account, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	if sess.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			logger.Warn(ctx, "failed to delete expired session", "error", err)
		}
		return nil, nil
	}
	return s.activeAccount(ctx, sess.AccountID)
}

func (s *Service) accountForBearer(ctx context.Context, raw string) (*account.Account, error) {
	claims, err := s.jwtService.ValidateToken(raw)
	if err != nil {
		logger.Debug(ctx, "bearer token rejected", "error", err)
		return nil, nil
	}
	return s.activeAccount(ctx, claims.AccountID)
}

// activeAccount returns nil for unknown, expired or locked accounts.
func (s *Service) activeAccount(ctx context.Context, rawID string) (*account.Account, error) {
	accountID, err := id.Parse(rawID)
	if err != nil {
		return nil, nil
	}

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load account: %w", err)
	}

	now := s.now()
	if !acct.IsActive(now) || acct.IsLocked(now) {
		return nil, nil
	}
	return acct, nil
}

func (s *Service) saveStats(ctx context.Context, acct *account.Account) error {
	if s.txManager == nil {
		return s.accounts.UpdateAuthenticationStats(ctx, acct)
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.accounts.UpdateAuthenticationStats(ctx, acct)
	})
}
