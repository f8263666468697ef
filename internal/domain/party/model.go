// Package party models the profiles an account can be assigned to.
// A party is any kind of profile; User is the human end-user subtype the
// current-user lookup cares about.
package party

import (
	"strings"
	"time"

	"frontuser/internal/core/id"
)

// Type discriminates party kinds in storage.
type Type string

const (
	TypeUser         Type = "user"
	TypeOrganization Type = "organization"
)

// Party is implemented by every profile kind.
type Party interface {
	PartyID() id.ID
	PartyType() Type
}

// PersonName is the structured name of a User.
type PersonName struct {
	Title      string `json:"title,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	OtherName  string `json:"otherName,omitempty"`
	Alias      string `json:"alias,omitempty"`
}

// FullName joins the non-empty name parts, falling back to the alias.
func (n PersonName) FullName() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{n.Title, n.FirstName, n.MiddleName, n.LastName, n.OtherName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return n.Alias
	}
	return strings.Join(parts, " ")
}

// User is a human end-user profile.
type User struct {
	ID           id.ID      `json:"id"`
	Name         PersonName `json:"name"`
	PrimaryEmail string     `json:"primaryEmail,omitempty"`
	Locale       string     `json:"locale,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// NewUser creates a user profile.
func NewUser(name PersonName, email string) *User {
	return &User{
		ID:           id.New(),
		Name:         name,
		PrimaryEmail: email,
		CreatedAt:    time.Now(),
	}
}

func (u *User) PartyID() id.ID  { return u.ID }
func (u *User) PartyType() Type { return TypeUser }

// Label is what UIs show for the user.
func (u *User) Label() string {
	if full := u.Name.FullName(); full != "" {
		return full
	}
	return u.PrimaryEmail
}

// Organization is a non-person profile. Accounts assigned to one never
// resolve to a current user.
type Organization struct {
	ID        id.ID     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewOrganization creates an organization profile.
func NewOrganization(name string) *Organization {
	return &Organization{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

func (o *Organization) PartyID() id.ID  { return o.ID }
func (o *Organization) PartyType() Type { return TypeOrganization }
