package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireMFA gates protected routes behind second-factor completion: an
// MFA-active account whose session has not passed a TOTP check this session
// is refused. Must run after Session. Routes that manage 2FA itself
// (setup/verify/reset) and the basic session routes stay outside this gate,
// otherwise a user could never complete or recover enrollment.
func RequireMFA() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authCtx, err := FromContext(c)
			if err != nil {
				return err
			}

			if authCtx.User.IsMFAActive && !authCtx.Session.MFAVerified {
				return echo.NewHTTPError(http.StatusUnauthorized, "2fa verification required")
			}
			return next(c)
		}
	}
}
