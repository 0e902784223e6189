package model

import (
	"strings"
	"time"
)

// User is a registered account. Email is the primary key, stored
// normalized (lowercased, trimmed); HashedPassword never leaves the
// service layer.
type User struct {
	ID             string     `json:"id" db:"user_id"`
	Email          string     `json:"email" db:"email"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// PublicUser is the shape of a user in API responses.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the response-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email}
}

// NormalizeEmail canonicalizes an email address for use as a store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
