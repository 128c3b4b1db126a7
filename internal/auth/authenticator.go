package auth

import (
	"context"

	"github.com/mmynk/cashier/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, badge, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new operator account with the given username, role and credential.
	// Returns the created user or an error if registration fails.
	Register(ctx context.Context, username, displayName, credential string, role models.Role) (*models.User, error)

	// Authenticate verifies the operator's credentials and returns the user if successful.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
