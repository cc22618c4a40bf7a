// Package models defines persisted server-side data structures.
package models

import "time"

// User is the persisted account record. Username and Email are stored
// trimmed and lower-cased and are unique. RefreshToken is a single nullable
// slot: each login or refresh overwrites it, logout clears it, so at most
// one refresh token per user is ever valid.
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	PasswordHash  string    `json:"-"`
	AvatarURL     string    `json:"avatarUrl"`
	CoverImageURL string    `json:"coverImageUrl,omitempty"`
	RefreshToken  string    `json:"-"`
	WatchHistory  []string  `json:"watchHistory,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sanitized returns a copy safe to cross the service boundary: the password
// hash and the stored refresh token are stripped.
func (u *User) Sanitized() *User {
	c := *u
	c.PasswordHash = ""
	c.RefreshToken = ""
	return &c
}
