package interfaces

import (
	"context"

	"github.com/haguru/obito/internal/models"
)

// UserRepository defines the contract for storing and retrieving User data.
// This interface remains the same as it's database-agnostic.
type UserRepository interface {
	// AddUser persists a new user and returns its generated ID.
	// A username collision surfaces as userrepo.ErrDuplicateUsername.
	AddUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername returns (nil, nil) when no user exists with the
	// given username; a non-nil error always means a storage failure.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
