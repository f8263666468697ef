package dto

import (
	"time"

	"frontuser/internal/domain/party"
)

// PersonNameResponse mirrors party.PersonName.
type PersonNameResponse struct {
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	OtherName  string `json:"otherName,omitempty"`
	Alias      string `json:"alias,omitempty"`
}

// UserResponse represents the current user.
type UserResponse struct {
	ID           string             `json:"id"`
	Label        string             `json:"label"`
	Name         PersonNameResponse `json:"name"`
	PrimaryEmail string             `json:"primaryEmail,omitempty"`
	Locale       string             `json:"locale,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// FromUser creates response from domain user.
func FromUser(u *party.User) *UserResponse {
	return &UserResponse{
		ID:    u.ID.String(),
		Label: u.Label(),
		Name: PersonNameResponse{
			Title:      u.Name.Title,
			FirstName:  u.Name.FirstName,
			MiddleName: u.Name.MiddleName,
			LastName:   u.Name.LastName,
			OtherName:  u.Name.OtherName,
			Alias:      u.Name.Alias,
		},
		PrimaryEmail: u.PrimaryEmail,
		Locale:       u.Locale,
		CreatedAt:    u.CreatedAt,
	}
}

// MeResponse is returned by GET /me.
type MeResponse struct {
	User        *UserResponse `json:"user"`
	ContextHash string        `json:"contextHash"`
}
