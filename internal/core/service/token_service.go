package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints the short-lived proof-of-2FA token. Tokens are
// stateless: nothing in this service is consulted to verify them, signature
// and expiry carry the whole claim.
type TokenService struct {
	secret   string
	tokenTTL time.Duration
}

func NewTokenService(secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &TokenService{secret: secret, tokenTTL: tokenTTL}
}

func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}
