// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account record. Every ownership relation, group
// membership and permission grant in the system hangs off a User ID.
type User struct {
	ID           uuid.UUID `json:"id"`        // The Global Unique Identifier (GUID) for the user.
	Email        string    `json:"email"`     // The user's login identifier, unique across the system.
	Name         string    `json:"name"`      // The user's display name.
	PasswordHash string    `json:"-"`         // bcrypt hash of the password. Never serialized.
	CreatedAt    time.Time `json:"createdAt"` // Timestamp of when this account was created.
	UpdatedAt    time.Time `json:"-"`         // Timestamp of the last modification.
}

// PublicUser is the reduced identity shape embedded in membership and
// permission listings (id, email, name only).
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Public strips everything but the identity fields.
func (u *User) Public() *PublicUser {
	if u == nil {
		return nil
	}

	return &PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
