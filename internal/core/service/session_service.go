package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/loginshield/auth-api/internal/core/domain"
	"github.com/loginshield/auth-api/internal/core/ports"
)

// SessionService implements ports.SessionManager on top of a session store
// and the user repository.
type SessionService struct {
	users ports.UserRepository
	store ports.SessionStore
}

func NewSessionService(users ports.UserRepository, store ports.SessionStore) *SessionService {
	return &SessionService{users: users, store: store}
}

func (s *SessionService) Login(ctx context.Context, user *domain.User) (*domain.Session, error) {
	return s.store.Create(ctx, user.ID)
}

func (s *SessionService) Restore(ctx context.Context, sessionID string) (*domain.AuthenticatedContext, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Account deleted after login: the session must not outlive it.
			_ = s.store.Destroy(ctx, sess.ID)
			return nil, domain.ErrSessionUserMissing
		}
		return nil, err
	}

	return &domain.AuthenticatedContext{User: user, Session: sess}, nil
}

func (s *SessionService) MarkMFAVerified(ctx context.Context, sessionID string) error {
	return s.store.MarkMFAVerified(ctx, sessionID)
}

// Logout destroys the durable session record. A failure here means the
// caller must not clear the cookie or report success: a half-destroyed
// session will still fail closed on the next Restore, but the client has to
// learn the logout did not complete.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLogoutIncomplete, err)
	}
	return nil
}
