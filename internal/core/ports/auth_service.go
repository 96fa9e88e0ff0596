package ports

import (
	"context"

	"github.com/swasthya/child-health-system/internal/core/domain"
)

// AuthService covers the full credential lifecycle: registration, login
// (token issuance) and per-request token verification.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	// Login validates the (username, password, claimedRole) triple and
	// returns a signed access token plus the authenticated user. A missing
	// user, a wrong password and a wrong claimed role are indistinguishable
	// to the caller: all return domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password, claimedRole string) (string, *domain.User, error)
	// Verify authenticates a bearer token and resolves it to the current
	// identity. Expired tokens return domain.ErrTokenExpired; malformed,
	// tampered or orphaned (deleted user) tokens return domain.ErrInvalidToken.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}
