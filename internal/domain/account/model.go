// Package account holds credential records. An Account is what a login
// proves ownership of; the human behind it is a party.
package account

import (
	"time"

	"frontuser/internal/core/id"
)

// DefaultProvider is the authentication provider name used for
// username/password accounts.
const DefaultProvider = "frontuser:login"

// Account is a credential record bound to at most one party.
type Account struct {
	ID                               id.ID      `db:"id" json:"id"`
	Identifier                       string     `db:"account_identifier" json:"identifier"`
	AuthenticationProviderName       string     `db:"authentication_provider_name" json:"authenticationProviderName"`
	CredentialsSource                string     `db:"credentials_source" json:"-"`
	PartyID                          *id.ID     `db:"party_id" json:"partyId,omitempty"`
	Roles                            []string   `db:"roles" json:"roles"`
	ExpirationDate                   *time.Time `db:"expiration_date" json:"expirationDate,omitempty"`
	LastSuccessfulAuthenticationDate *time.Time `db:"last_successful_authentication_date" json:"lastSuccessfulAuthenticationDate,omitempty"`
	FailedAuthenticationCount        int        `db:"failed_authentication_count" json:"-"`
	LockedUntil                      *time.Time `db:"locked_until" json:"-"`
	CreatedAt                        time.Time  `db:"created_at" json:"createdAt"`
}

// New creates an account for identifier under the given provider.
func New(identifier, provider, credentialsSource string) *Account {
	return &Account{
		ID:                         id.New(),
		Identifier:                 identifier,
		AuthenticationProviderName: provider,
		CredentialsSource:          credentialsSource,
		Roles:                      []string{},
		CreatedAt:                  time.Now(),
	}
}

// IsActive reports whether the account has not passed its expiration date.
func (a *Account) IsActive(now time.Time) bool {
	return a.ExpirationDate == nil || now.Before(*a.ExpirationDate)
}

// IsLocked returns true while the lockout window is open.
func (a *Account) IsLocked(now time.Time) bool {
	if a.LockedUntil == nil {
		return false
	}
	return now.Before(*a.LockedUntil)
}

// RecordFailedAuthentication increments the failure counter and opens a
// lockout window once maxAttempts is reached.
func (a *Account) RecordFailedAuthentication(now time.Time, maxAttempts int, lockDuration time.Duration) {
	a.FailedAuthenticationCount++
	if maxAttempts > 0 && a.FailedAuthenticationCount >= maxAttempts {
		until := now.Add(lockDuration)
		a.LockedUntil = &until
	}
}

// RecordSuccessfulAuthentication resets the failure counter.
func (a *Account) RecordSuccessfulAuthentication(now time.Time) {
	a.FailedAuthenticationCount = 0
	a.LockedUntil = nil
	a.LastSuccessfulAuthenticationDate = &now
}

// HasRole checks if the account carries a role.
func (a *Account) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
