package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/loginshield/auth-api/internal/core/domain"
	"github.com/loginshield/auth-api/internal/core/ports"
)

const qrImageSize = 200

// TOTPService manages two-factor enrollment against the user repository.
//
// activateOnSetup preserves the legacy activation order: the MFA-active flag
// flips during Setup, before the user has ever produced a valid code. When
// false, the flag flips on the first successful Verify instead.
type TOTPService struct {
	repo            ports.UserRepository
	issuer          string
	activateOnSetup bool
}

func NewTOTPService(repo ports.UserRepository, issuer string, activateOnSetup bool) *TOTPService {
	if issuer == "" {
		issuer = "two-factor-auth"
	}
	return &TOTPService{repo: repo, issuer: issuer, activateOnSetup: activateOnSetup}
}

// Setup generates a fresh shared secret, commits it on the account, and
// returns the secret together with the otpauth:// URI and a PNG data URL of
// its QR code. Re-running setup replaces any previous secret.
func (s *TOTPService) Setup(ctx context.Context, user *domain.User) (*ports.MFAEnrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: user.Username,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	if err := s.repo.SetTwoFactorSecret(ctx, user.ID, key.Secret(), s.activateOnSetup); err != nil {
		return nil, err
	}

	qr, err := qrDataURL(key)
	if err != nil {
		return nil, err
	}

	return &ports.MFAEnrollment{
		Secret: key.Secret(),
		URL:    key.URL(),
		QRCode: qr,
	}, nil
}

// Verify checks a submitted code against the secret snapshot on the given
// user record. The snapshot was fetched in one read, so a reset racing this
// call either already cleared the secret (ErrMFANotConfigured) or loses to
// the conditional activation update.
func (s *TOTPService) Verify(ctx context.Context, user *domain.User, code string) error {
	if !user.MFAEnrolled() {
		return domain.ErrMFANotConfigured
	}

	// 30-second step, one step of skew either side.
	if !totp.Validate(code, user.TwoFactorSecret) {
		return domain.ErrInvalidMFACode
	}

	if !s.activateOnSetup && !user.IsMFAActive {
		if err := s.repo.ActivateMFA(ctx, user.ID, user.TwoFactorSecret); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears the secret and deactivates MFA. Resetting an account that
// never enrolled is a no-op success.
func (s *TOTPService) Reset(ctx context.Context, user *domain.User) error {
	return s.repo.ClearTwoFactor(ctx, user.ID)
}

// qrDataURL renders the provisioning URI as a PNG QR code wrapped in a data
// URL, ready for an <img> tag.
func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(qrImageSize, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("render qr image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
