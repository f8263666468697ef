package dto

import (
	"time"

	"frontuser/internal/domain/account"
	"frontuser/internal/domain/auth"
)

// LoginRequest for account login.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Identifier: r.Identifier,
		Password:   r.Password,
	}
}

// LoginResponse is returned by POST /auth/login. The session id travels in
// a cookie, never in the body.
type LoginResponse struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType"`
	ExpiresAt   time.Time        `json:"expiresAt"`
	Account     *AccountResponse `json:"account"`
}

// FromLoginResult creates response from domain login result.
func FromLoginResult(r *auth.LoginResult) *LoginResponse {
	return &LoginResponse{
		AccessToken: r.AccessToken,
		TokenType:   r.TokenType,
		ExpiresAt:   r.ExpiresAt,
		Account:     FromAccount(r.Account),
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID         string   `json:"id"`
	Identifier string   `json:"identifier"`
	Provider   string   `json:"provider"`
	PartyID    string   `json:"partyId,omitempty"`
	Roles      []string `json:"roles"`
}

// FromAccount creates response from domain account.
func FromAccount(a *account.Account) *AccountResponse {
	if a == nil {
		return nil
	}
	resp := &AccountResponse{
		ID:         a.ID.String(),
		Identifier: a.Identifier,
		Provider:   a.AuthenticationProviderName,
		Roles:      a.Roles,
	}
	if a.PartyID != nil {
		resp.PartyID = a.PartyID.String()
	}
	if resp.Roles == nil {
		resp.Roles = []string{}
	}
	return resp
}
