package ports

import (
	"context"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// SessionStore owns server-side session lifetime. Sessions expire lazily
// after an idle period; Get on an expired or destroyed session returns
// domain.ErrUnauthenticated.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*domain.Session, error)
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	MarkMFAVerified(ctx context.Context, sessionID string) error
	Destroy(ctx context.Context, sessionID string) error
}
