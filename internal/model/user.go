// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data, similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// User represents a registered account.
//
// Email is the login identifier and is stored trimmed and lowercased so that
// "A@X.com" and "a@x.com" are the same account.
//
// WHY json:"-" ON PasswordHash?
// The hash must never leave the server. The "-" tag tells encoding/json to
// skip the field entirely, so even a handler that writes the whole struct
// cannot leak it.
//
// WHY *string FOR THE NAMES?
// Both are optional and map to nullable columns. A nil pointer serializes as
// null, which lets clients tell "never set" apart from an empty name.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    *string   `json:"firstName"`
	LastName     *string   `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account can sign in with a password.
// Accounts created through GitHub sign-in have no hash.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
