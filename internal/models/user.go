package models

import (
	"time"
)

// User is an account that can sign in to the site and the admin.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// String returns the label shown for a user in admin lists and pickers.
func (u *User) String() string {
	return u.Login
}
