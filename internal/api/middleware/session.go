package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loginshield/auth-api/internal/api/cookie"
	"github.com/loginshield/auth-api/internal/core/domain"
	"github.com/loginshield/auth-api/internal/core/ports"
)

// contextKey is where the restored identity lives on the echo context.
const contextKey = "auth_context"

// Session restores the caller's session from the signed cookie and threads
// the resulting AuthenticatedContext into the request. Anything that goes
// wrong — missing cookie, bad signature, expired session, vanished account —
// is a uniform 401.
func Session(sessions ports.SessionManager, codec *cookie.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, err := codec.Read(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized user")
			}

			authCtx, err := sessions.Restore(c.Request().Context(), sessionID)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrSessionUserMissing) {
					codec.Clear(c)
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized user")
				}
				return err
			}

			Attach(c, authCtx)
			return next(c)
		}
	}
}

// Attach stores the restored identity on the request. Exported so handler
// tests can inject an identity without running the full middleware.
func Attach(c echo.Context, authCtx *domain.AuthenticatedContext) {
	c.Set(contextKey, authCtx)
}

// FromContext extracts the identity placed by the Session middleware.
// Presence proves the middleware ran; a route wired without it is a bug
// surfaced as 401, not a panic.
func FromContext(c echo.Context) (*domain.AuthenticatedContext, error) {
	authCtx, _ := c.Get(contextKey).(*domain.AuthenticatedContext)
	if authCtx == nil || authCtx.User == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized user")
	}
	return authCtx, nil
}
