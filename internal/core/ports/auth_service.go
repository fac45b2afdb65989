package ports

import (
	"context"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// AuthService verifies credentials and registers accounts.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
}
