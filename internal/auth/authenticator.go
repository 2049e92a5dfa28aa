// Package auth provides demo-grade credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/finchat/internal/models"
)

// Authenticator registers and verifies users.
type Authenticator interface {
	// Register creates a user with the given credential. Returns
	// ErrEmailExists if the email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user matching email and credential, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error
}
