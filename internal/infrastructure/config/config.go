package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config carries all process configuration. The required entries are the
// secrets and peers the service cannot run without; a missing one fails
// Load, and startup treats that as fatal.
type Config struct {
	Port     string `env:"PORT,     default=7002"`
	Env      string `env:"ENV,      default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// ClientURL is the single allowed cross-origin caller.
	ClientURL string `env:"CLIENT_URL, required"`

	// JWTSecret signs the post-2FA proof token.
	JWTSecret string `env:"JWT_SECRET, required"`

	TOTPIssuer string `env:"TOTP_ISSUER, default=two-factor-auth"`

	// MFAActivateOnSetup keeps the legacy behavior of marking an account
	// MFA-active at setup time, before any code was ever verified. Set to
	// false to activate on the first successful verification instead.
	MFAActivateOnSetup bool `env:"MFA_ACTIVATE_ON_SETUP, default=true"`

	Mongo   MongoConfig
	Session SessionConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, required"`
	Database string `env:"MONGO_DB,  default=two_factor_auth"`
}

type SessionConfig struct {
	// Secret signs the session cookie value so a tampered ID is rejected
	// before the store is consulted.
	Secret string `env:"SESSION_SECRET, required"`

	// TTL is the idle timeout; sessions expire lazily once idle this long.
	TTL time.Duration `env:"SESSION_TTL, default=1h"`

	RedisAddr string `env:"REDIS_ADDR, default=localhost:6379"`
	RedisDB   int    `env:"REDIS_DB,   default=0"`

	// CookieSecure should be true everywhere TLS terminates in front of the
	// service; development defaults to plain HTTP.
	CookieSecure bool `env:"SESSION_COOKIE_SECURE, default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
