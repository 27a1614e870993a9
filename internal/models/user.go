package models

import "time"

// User represents a registered account
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Profile holds the public identity attached to a user account.
// The nickname is unique and is what leaderboards display.
type Profile struct {
	UserID    int64
	Nickname  string
	CreatedAt time.Time
}
