// Package cookie signs and reads the session cookie. The cookie only
// carries the opaque session ID plus an HMAC over it; all session state
// lives server-side.
package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// Name is the session cookie name.
const Name = "sid"

var ErrInvalidCookie = errors.New("invalid session cookie")

// Codec encodes session IDs into tamper-evident cookie values.
type Codec struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func NewCodec(secret string, ttl time.Duration, secure bool) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Write sets the session cookie for the given session ID.
func (cd *Codec) Write(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     Name,
		Value:    cd.encode(sessionID),
		Path:     "/",
		MaxAge:   int(cd.ttl.Seconds()),
		HttpOnly: true,
		Secure:   cd.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear instructs the client to drop the session cookie.
func (cd *Codec) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cd.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Read extracts and authenticates the session ID from the request cookie.
func (cd *Codec) Read(c echo.Context) (string, error) {
	ck, err := c.Cookie(Name)
	if err != nil || ck.Value == "" {
		return "", ErrInvalidCookie
	}
	return cd.decode(ck.Value)
}

func (cd *Codec) encode(sessionID string) string {
	return sessionID + "." + base64.RawURLEncoding.EncodeToString(cd.sign(sessionID))
}

func (cd *Codec) decode(value string) (string, error) {
	i := strings.LastIndexByte(value, '.')
	if i < 0 {
		return "", ErrInvalidCookie
	}
	id, sig := value[:i], value[i+1:]

	want, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrInvalidCookie
	}
	if !hmac.Equal(cd.sign(id), want) {
		return "", ErrInvalidCookie
	}
	return id, nil
}

func (cd *Codec) sign(sessionID string) []byte {
	mac := hmac.New(sha256.New, cd.secret)
	mac.Write([]byte(sessionID))
	return mac.Sum(nil)
}
