package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// SessionStore keeps sessions as Redis hashes under session:<id> with a TTL
// equal to the idle timeout. Expiry is lazy: Redis drops the key, the next
// Get sees nothing and reports the session unauthenticated. Key format:
// session:<uuid>.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Create(ctx context.Context, userID string) (*domain.Session, error) {
	id := uuid.NewString()
	key := sessionKey(id)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, "user_id", userID, "mfa_verified", "0")
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &domain.Session{ID: id, UserID: userID}, nil
}

// Get loads a session and refreshes its idle TTL. A missing key — expired,
// destroyed, or never issued — is domain.ErrUnauthenticated.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	key := sessionKey(sessionID)

	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(fields) == 0 || fields["user_id"] == "" {
		return nil, domain.ErrUnauthenticated
	}

	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("refresh session ttl: %w", err)
	}

	return &domain.Session{
		ID:          sessionID,
		UserID:      fields["user_id"],
		MFAVerified: fields["mfa_verified"] == "1",
	}, nil
}

func (s *SessionStore) MarkMFAVerified(ctx context.Context, sessionID string) error {
	key := sessionKey(sessionID)

	// HSet on a vanished key would resurrect it without a TTL, so require
	// the session to still exist.
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if exists == 0 {
		return domain.ErrUnauthenticated
	}

	if err := s.client.HSet(ctx, key, "mfa_verified", "1").Err(); err != nil {
		return fmt.Errorf("mark session mfa verified: %w", err)
	}
	return nil
}

// Destroy removes the session record. Destroying an already-gone session is
// a success: the record's absence is the goal state.
func (s *SessionStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return "session:" + id
}
