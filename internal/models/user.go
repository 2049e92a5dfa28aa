package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user account.
// Credentials are demo-only: a bcrypt hash of a password.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown in the chat UI.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// Stage is the user's current workflow stage.
	Stage Stage

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change (e.g. stage update).
	UpdatedAt int64
}

// NewUser creates a user in the Started stage with a fresh ID.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Stage:        StageStarted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
