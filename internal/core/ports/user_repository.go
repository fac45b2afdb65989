package ports

import (
	"context"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// Username lookups are case-insensitive. The two-factor mutations are
// single-document atomic: concurrent setup/verify/reset must never leave a
// secret without its flag state.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// SetTwoFactorSecret stores a fresh secret and sets the active flag to
	// the given value in one update.
	SetTwoFactorSecret(ctx context.Context, id, secret string, active bool) error

	// ActivateMFA flips the active flag only while the stored secret still
	// equals the one the code was verified against. Returns
	// domain.ErrMFAStateConflict when a concurrent reset or re-setup won.
	ActivateMFA(ctx context.Context, id, secret string) error

	// ClearTwoFactor removes the secret and clears the flag. Clearing an
	// account with no secret is a no-op success.
	ClearTwoFactor(ctx context.Context, id string) error
}
