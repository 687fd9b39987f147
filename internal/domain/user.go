package domain

import "time"

// User represents a registered author of posts and comments.
type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string `json:"-"`
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
