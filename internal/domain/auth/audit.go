package auth

import (
	"context"
	"time"

	"frontuser/internal/core/id"
	"frontuser/pkg/logger"
)

// EventType names an authentication event.
type EventType string

const (
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventAccountLocked  EventType = "account_locked"
	EventLogout         EventType = "logout"
)

// Failure reasons carried in Event.Details["reason"].
const (
	ReasonUnknownAccount = "unknown_account"
	ReasonBadPassword    = "bad_password"
	ReasonLocked         = "locked"
	ReasonExpired        = "expired"
)

// Event is one entry of the authentication audit trail.
// AccountID is nil when the identifier matched no account.
type Event struct {
	ID         id.ID          `json:"id"`
	Type       EventType      `json:"type"`
	AccountID  *id.ID         `json:"accountId,omitempty"`
	Identifier string         `json:"identifier"`
	Provider   string         `json:"provider"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// AuditLog persists authentication events.
type AuditLog interface {
	Record(ctx context.Context, ev Event) error
}

// WithAuditLog attaches an audit trail. Recording failures never fail the
// operation being audited.
func (s *Service) WithAuditLog(log AuditLog) *Service {
	s.audit = log
	return s
}

func (s *Service) record(ctx context.Context, ev Event) {
	if s.audit == nil {
		return
	}
	if id.IsNil(ev.ID) {
		ev.ID = id.New()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.now().UTC()
	}
	if ev.Provider == "" {
		ev.Provider = s.config.Provider
	}
	if err := s.audit.Record(ctx, ev); err != nil {
		logger.Warn(ctx, "failed to record authentication event",
			"event", ev.Type,
			"identifier", ev.Identifier,
			"error", err)
	}
}

func failedEvent(identifier string, accountID *id.ID, reason string) Event {
	return Event{
		Type:       EventLoginFailed,
		AccountID:  accountID,
		Identifier: identifier,
		Details:    map[string]any{"reason": reason},
	}
}
