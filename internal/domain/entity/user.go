// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"github.com/google/uuid"
)

// User is the only persisted record. Its JSON form is also the on-disk and wire format.
type User struct {
	ID    uuid.UUID `json:"id"`    // Random 128-bit identifier, assigned once at creation.
	Name  string    `json:"name"`  // Free text, not validated.
	Email string    `json:"email"` // Free text, not validated.
}

// NewUser builds a user with a fresh random ID. Name and email are taken as given.
func NewUser(name, email string) *User {
	return &User{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
	}
}

// Clone returns an independent copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u

	return &c
}
