package domain

import (
	"strings"
	"time"
)

// User is a registered account. PasswordHash is never serialized to clients.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserCreate carries the fields of a new account. The password must already
// be hashed.
type UserCreate struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

// UserUpdate is a sparse change-set for a user profile.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Verified  *bool
}

// Changes lists the defined fields in declaration order. Email is
// normalized to lower case.
func (u UserUpdate) Changes() []Change {
	var changes []Change
	if u.FirstName != nil {
		changes = append(changes, Change{Field: "firstName", Value: *u.FirstName})
	}
	if u.LastName != nil {
		changes = append(changes, Change{Field: "lastName", Value: *u.LastName})
	}
	if u.Email != nil {
		changes = append(changes, Change{Field: "email", Value: NormalizeEmail(*u.Email)})
	}
	if u.Verified != nil {
		changes = append(changes, Change{Field: "verified", Value: *u.Verified})
	}
	return changes
}

// Apply copies the defined fields of u onto usr.
func (u UserUpdate) Apply(usr *User) {
	if u.FirstName != nil {
		usr.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		usr.LastName = *u.LastName
	}
	if u.Email != nil {
		usr.Email = NormalizeEmail(*u.Email)
	}
	if u.Verified != nil {
		usr.Verified = *u.Verified
	}
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
