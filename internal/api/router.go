package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/loginshield/auth-api/internal/api/cookie"
	"github.com/loginshield/auth-api/internal/api/handler"
	"github.com/loginshield/auth-api/internal/api/middleware"
	"github.com/loginshield/auth-api/internal/core/ports"
	"github.com/loginshield/auth-api/internal/core/service"
	"github.com/loginshield/auth-api/internal/infrastructure/config"
	mongodb "github.com/loginshield/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/loginshield/auth-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("2M"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb, cfg.Session.TTL)
	codec := cookie.NewCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure)

	authService := service.NewAuthService(userRepo)
	sessionService := service.NewSessionService(userRepo, sessionStore)
	totpService := service.NewTOTPService(userRepo, cfg.TOTPIssuer, cfg.MFAActivateOnSetup)
	tokenService := service.NewTokenService(cfg.JWTSecret, 0)

	authHandler := handler.NewAuthHandler(authService, sessionService, totpService, tokenService, audit, codec)
	sessionRequired := middleware.Session(sessionService, codec)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/status", authHandler.Status, sessionRequired)
	auth.POST("/logout", authHandler.Logout, sessionRequired)

	// 2FA management stays outside the MFA gate so enrollment can complete.
	auth.POST("/2fa/setup", authHandler.Setup2FA, sessionRequired)
	auth.POST("/2fa/verify", authHandler.Verify2FA, sessionRequired)
	auth.POST("/2fa/reset", authHandler.Reset2FA, sessionRequired)

	// Protected routes: MFA-active accounts must have verified a code this
	// session.
	auth.GET("/me", authHandler.Me, sessionRequired, middleware.RequireMFA())

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
