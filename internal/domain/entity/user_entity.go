package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// Passwords are stored as bcrypt hashes in PasswordHash; users are never
// updated after registration.
type User struct {
	ID           string
	PhoneNumber  string
	PasswordHash string
	Email        string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
