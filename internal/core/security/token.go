package security

import (
	"frontuser/internal/domain/account"
)

// Status is the authentication status of a token.
type Status int

const (
	NoCredentialsGiven Status = iota
	WrongCredentials
	AuthenticationSuccessful
)

func (s Status) String() string {
	switch s {
	case WrongCredentials:
		return "wrong_credentials"
	case AuthenticationSuccessful:
		return "authentication_successful"
	default:
		return "no_credentials_given"
	}
}

// AuthenticationToken is the Token implementation used by the host.
type AuthenticationToken struct {
	provider string
	status   Status
	account  *account.Account
}

var _ Token = (*AuthenticationToken)(nil)

// NewToken returns an unauthenticated token for provider.
func NewToken(provider string) *AuthenticationToken {
	return &AuthenticationToken{provider: provider}
}

// Authenticated returns a token that authenticated acct via provider.
func Authenticated(provider string, acct *account.Account) *AuthenticationToken {
	t := NewToken(provider)
	t.Authenticate(acct)
	return t
}

// Authenticate marks the token authenticated for acct. A nil account marks
// it as failed.
func (t *AuthenticationToken) Authenticate(acct *account.Account) {
	if acct == nil {
		t.Fail()
		return
	}
	t.account = acct
	t.status = AuthenticationSuccessful
}

// Fail marks the token as carrying wrong credentials.
func (t *AuthenticationToken) Fail() {
	t.account = nil
	t.status = WrongCredentials
}

// Reset drops any authentication, as on logout.
func (t *AuthenticationToken) Reset() {
	t.account = nil
	t.status = NoCredentialsGiven
}

func (t *AuthenticationToken) AuthenticationProviderName() string { return t.provider }
func (t *AuthenticationToken) Status() Status                     { return t.status }

func (t *AuthenticationToken) IsAuthenticated() bool {
	return t.status == AuthenticationSuccessful
}

func (t *AuthenticationToken) Account() *account.Account {
	if !t.IsAuthenticated() {
		return nil
	}
	return t.account
}
