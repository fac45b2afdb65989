package ports

import (
	"context"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// SessionManager binds verified identities to server-side sessions and
// restores them on later requests.
type SessionManager interface {
	// Login establishes a session for an already-verified user.
	Login(ctx context.Context, user *domain.User) (*domain.Session, error)

	// Restore rehydrates the account behind a session ID. The user record is
	// reloaded from the store on every call; a session whose account vanished
	// is destroyed and reported as domain.ErrSessionUserMissing.
	Restore(ctx context.Context, sessionID string) (*domain.AuthenticatedContext, error)

	// MarkMFAVerified stamps the session after a successful TOTP check.
	MarkMFAVerified(ctx context.Context, sessionID string) error

	// Logout destroys the server-side record. Cookie clearing is the
	// caller's final step and must only happen after this succeeds.
	Logout(ctx context.Context, sessionID string) error
}
