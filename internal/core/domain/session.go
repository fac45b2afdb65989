package domain

import "errors"

// Session is the server-side record binding a cookie to an account.
// MFAVerified marks that a TOTP code was validated on this session; the
// marker never outlives the session itself.
type Session struct {
	ID          string
	UserID      string
	MFAVerified bool
}

var ErrUnauthenticated = errors.New("unauthorized user")
var ErrSessionUserMissing = errors.New("user not found during session restore")
var ErrLogoutIncomplete = errors.New("logout did not complete")

// AuthenticatedContext is the per-request identity produced by restoring a
// session. It is threaded explicitly into handlers; there is no ambient
// request-global user.
type AuthenticatedContext struct {
	User    *User
	Session *Session
}
