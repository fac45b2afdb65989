package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// stubUserRepo is an in-memory ports.UserRepository shared by the service
// tests in this package.
type stubUserRepo struct {
	users  map[string]*domain.User // keyed by normalized username
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	key := domain.NormalizeUsername(user.Username)
	if _, exists := r.users[key]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = "user_" + strconv.Itoa(r.nextID)
	r.users[key] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[domain.NormalizeUsername(username)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) SetTwoFactorSecret(_ context.Context, id, secret string, active bool) error {
	for _, u := range r.users {
		if u.ID == id {
			u.TwoFactorSecret = secret
			u.IsMFAActive = active
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *stubUserRepo) ActivateMFA(_ context.Context, id, secret string) error {
	for _, u := range r.users {
		if u.ID == id {
			if u.TwoFactorSecret != secret {
				return domain.ErrMFAStateConflict
			}
			u.IsMFAActive = true
			return nil
		}
	}
	return domain.ErrMFAStateConflict
}

func (r *stubUserRepo) ClearTwoFactor(_ context.Context, id string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.TwoFactorSecret = ""
			u.IsMFAActive = false
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "Secret1!")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected generated id")
	}
	if user.IsMFAActive {
		t.Fatalf("new account must not be MFA-active")
	}
	if user.PasswordHash == "Secret1!" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Secret1!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_MissingCredentials(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "", "pass"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", ""); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "bob", "password1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "bob", "different2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	// Duplicate detection is case-insensitive.
	if _, err := svc.Register(context.Background(), "BOB", "different2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for different casing, got %v", err)
	}
}

func TestAuthService_Login_CaseInsensitive(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), "alice", "Secret1!"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Login(context.Background(), "ALICE", "Secret1!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("expected stored display casing, got %q", user.Username)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), "dave", "goodpass1")
	if _, err := svc.Login(context.Background(), "dave", "badpass99"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserNotDistinguishable(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	// An unknown username surfaces the same error as a wrong password so
	// account existence cannot be probed.
	_, err := svc.Login(context.Background(), "ghost", "whatever1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("login must not leak ErrUserNotFound")
	}
}

func TestAuthService_Login_MissingInput(t *testing.T) {
	svc := NewAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "x"); !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}
