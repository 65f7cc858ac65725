package auth

import (
	"context"

	"github.com/tmarques/backplan/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account. The credential format depends on
	// the implementation (e.g. password, OAuth token).
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, name, email, username, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if
	// successful. login may be a username or an email address.
	Authenticate(ctx context.Context, login, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements. For passwords: check length, complexity, etc.
	ValidateCredential(credential string) error
}
