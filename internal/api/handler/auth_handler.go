package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loginshield/auth-api/internal/api/cookie"
	"github.com/loginshield/auth-api/internal/api/metrics"
	"github.com/loginshield/auth-api/internal/api/middleware"
	"github.com/loginshield/auth-api/internal/core/domain"
	"github.com/loginshield/auth-api/internal/core/ports"
)

type AuthHandler struct {
	auth     ports.AuthService
	sessions ports.SessionManager
	totp     ports.TOTPService
	tokens   ports.TokenService
	audit    ports.AuditRecorder
	codec    *cookie.Codec
}

func NewAuthHandler(
	auth ports.AuthService,
	sessions ports.SessionManager,
	totp ports.TOTPService,
	tokens ports.TokenService,
	audit ports.AuditRecorder,
	codec *cookie.Codec,
) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		totp:     totp,
		tokens:   tokens,
		audit:    audit,
		codec:    codec,
	}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
}

type verifyRequest struct {
	Token string `json:"token" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Message     string `json:"message"`
	Username    string `json:"username"`
	IsMFAActive bool   `json:"isMfaActive"`
}

type verifyResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	_, err := h.auth.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		h.recordAudit(c, req.Username, domain.AuditRegister, auditOutcome(err))
		if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrMissingCredentials) {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDenied).Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	h.recordAudit(c, req.Username, domain.AuditRegister, domain.AuditOK)
	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// Login verifies credentials and establishes a session.
//
// @Summary      Log in with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Credentials"
// @Success      200   {object}  statusResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		h.recordAudit(c, req.Username, domain.AuditLogin, auditOutcome(err))
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrMissingCredentials) {
			metrics.LoginsTotal.WithLabelValues(metrics.ResultDenied).Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	sess, err := h.sessions.Login(c.Request().Context(), user)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	h.codec.Write(c, sess.ID)

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	h.recordAudit(c, user.Username, domain.AuditLogin, domain.AuditOK)
	return c.JSON(http.StatusOK, statusResponse{
		Message:     "User logged in successfully",
		Username:    user.Username,
		IsMFAActive: user.IsMFAActive,
	})
}

// Status reports the authentication state of the current session.
//
// @Summary      Authentication status
// @Tags         auth
// @Produce      json
// @Success      200  {object}  statusResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/status [get]
func (h *AuthHandler) Status(c echo.Context) error {
	authCtx, err := middleware.FromContext(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statusResponse{
		Message:     "User is authenticated",
		Username:    authCtx.User.Username,
		IsMFAActive: authCtx.User.IsMFAActive,
	})
}

// Logout destroys the session and clears the cookie. The cookie is only
// cleared after the server-side record is gone; a failed destroy reports an
// error and leaves the cookie so the client does not believe it logged out.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	authCtx, err := middleware.FromContext(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Logout(c.Request().Context(), authCtx.Session.ID); err != nil {
		h.recordAudit(c, authCtx.User.Username, domain.AuditLogout, domain.AuditError)
		return err
	}
	h.codec.Clear(c)

	metrics.SessionsDestroyedTotal.Inc()
	h.recordAudit(c, authCtx.User.Username, domain.AuditLogout, domain.AuditOK)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logout successful"})
}

// Setup2FA enrolls the session user into TOTP two-factor auth.
//
// @Summary      Set up TOTP 2FA
// @Tags         2fa
// @Produce      json
// @Success      200  {object}  ports.MFAEnrollment
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/2fa/setup [post]
func (h *AuthHandler) Setup2FA(c echo.Context) error {
	authCtx, err := middleware.FromContext(c)
	if err != nil {
		return err
	}

	enrollment, err := h.totp.Setup(c.Request().Context(), authCtx.User)
	if err != nil {
		h.recordAudit(c, authCtx.User.Username, domain.AuditMFASetup, domain.AuditError)
		return err
	}

	metrics.MFAEnrollmentsTotal.Inc()
	h.recordAudit(c, authCtx.User.Username, domain.AuditMFASetup, domain.AuditOK)
	return c.JSON(http.StatusOK, enrollment)
}

// Verify2FA checks a TOTP code and, on success, marks the session as fully
// authenticated and returns the signed proof token.
//
// @Summary      Verify a TOTP code
// @Tags         2fa
// @Accept       json
// @Produce      json
// @Param        body  body      verifyRequest  true  "One-time code"
// @Success      200   {object}  verifyResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/2fa/verify [post]
func (h *AuthHandler) Verify2FA(c echo.Context) error {
	authCtx, err := middleware.FromContext(c)
	if err != nil {
		return err
	}

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.totp.Verify(c.Request().Context(), authCtx.User, req.Token); err != nil {
		h.recordAudit(c, authCtx.User.Username, domain.AuditMFAVerify, auditOutcome(err))
		if errors.Is(err, domain.ErrInvalidMFACode) || errors.Is(err, domain.ErrMFANotConfigured) {
			metrics.MFAVerificationsTotal.WithLabelValues(metrics.ResultDenied).Inc()
		} else {
			metrics.MFAVerificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	if err := h.sessions.MarkMFAVerified(c.Request().Context(), authCtx.Session.ID); err != nil {
		metrics.MFAVerificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	token, err := h.tokens.Issue(authCtx.User.Username)
	if err != nil {
		metrics.MFAVerificationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return err
	}

	metrics.MFAVerificationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	h.recordAudit(c, authCtx.User.Username, domain.AuditMFAVerify, domain.AuditOK)
	return c.JSON(http.StatusOK, verifyResponse{Message: "2FA verified", Token: token})
}

// Reset2FA clears TOTP enrollment for the session user. Idempotent.
//
// @Summary      Reset TOTP 2FA
// @Tags         2fa
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/2fa/reset [post]
func (h *AuthHandler) Reset2FA(c echo.Context) error {
	authCtx, err := middleware.FromContext(c)
	if err != nil {
		return err
	}

	if err := h.totp.Reset(c.Request().Context(), authCtx.User); err != nil {
		h.recordAudit(c, authCtx.User.Username, domain.AuditMFAReset, domain.AuditError)
		return err
	}

	h.recordAudit(c, authCtx.User.Username, domain.AuditMFAReset, domain.AuditOK)
	return c.JSON(http.StatusOK, messageResponse{Message: "2FA reset successful"})
}

// Me returns the full profile of the session user. Runs behind the MFA gate.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	authCtx, err := middleware.FromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authCtx.User)
}

func (h *AuthHandler) recordAudit(c echo.Context, username, action, outcome string) {
	if h.audit == nil {
		return
	}
	h.audit.Record(domain.AuditEvent{
		Username:  username,
		Action:    action,
		Outcome:   outcome,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}

// auditOutcome classifies an operation error for the audit trail: expected
// denials stay distinguishable from backend faults.
func auditOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrMissingCredentials),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrInvalidMFACode),
		errors.Is(err, domain.ErrMFANotConfigured):
		return domain.AuditDenied
	default:
		return domain.AuditError
	}
}
