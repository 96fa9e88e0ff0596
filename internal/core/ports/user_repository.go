package ports

import (
	"context"

	"github.com/swasthya/child-health-system/internal/core/domain"
)

// UserRepository defines the interface for credential store persistence.
// Create must fail atomically with domain.ErrUserExists when the username
// is already taken (enforced by the store's unique index, not by a
// read-then-write check).
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByUsernameAndRole looks up a user by the (username, role) pair.
	// The role is part of the login key: a username cannot authenticate
	// under a role it does not hold.
	FindByUsernameAndRole(ctx context.Context, username, role string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}
