// Package model defines the data structures shared across the application.
package model

import "time"

// User represents a registered account.
//
// Two sign-in paths exist: email/password (PasswordHash set, GoogleID empty)
// and Google OAuth (GoogleID set, PasswordHash empty). Both end up as the same
// row; the internal xid is the only identifier the rest of the app sees.
//
// PasswordHash is never serialized — note the `json:"-"` tag. Leaking bcrypt
// hashes in API responses would hand attackers offline cracking material.
type User struct {
	ID           string    `json:"id"          db:"id"`
	Email        string    `json:"email"       db:"email"`
	PasswordHash string    `json:"-"           db:"password_hash"`
	GoogleID     string    `json:"-"           db:"google_id"` // Google's "sub" claim; empty for password accounts
	DisplayName  string    `json:"displayName" db:"display_name"`
	AvatarURL    string    `json:"avatarUrl"   db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"   db:"updated_at"`
}
