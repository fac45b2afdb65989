package domain

import (
	"errors"
	"strings"
	"time"
)

// User models a registered account. The password is only ever held as a
// bcrypt hash; the TOTP secret is present iff two-factor enrollment started.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	PasswordHash    string    `json:"-"`
	IsMFAActive     bool      `json:"isMfaActive"`
	TwoFactorSecret string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

var ErrMissingCredentials = errors.New("username and password are required")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("username already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrMFANotConfigured = errors.New("2fa is not set up for this user")
var ErrInvalidMFACode = errors.New("invalid 2fa code")
var ErrMFAStateConflict = errors.New("2fa state changed concurrently")

// NormalizeUsername canonicalizes a username for case-insensitive matching.
// The stored display form keeps the casing the user registered with.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// MFAEnrolled reports whether a TOTP secret is committed on the account.
// The active flag alone is not enough: in activate-on-verify mode the secret
// exists before the flag flips.
func (u *User) MFAEnrolled() bool {
	return u.TwoFactorSecret != ""
}
