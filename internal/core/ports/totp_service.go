package ports

import (
	"context"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// MFAEnrollment is what setup hands back to the caller: the shared secret
// for manual entry and the provisioning URI, also rendered as a QR image.
// Both are sensitive; they are shown once during onboarding.
type MFAEnrollment struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qrCode"`
}

// TOTPService manages per-account time-based one-time-password enrollment.
type TOTPService interface {
	Setup(ctx context.Context, user *domain.User) (*MFAEnrollment, error)
	Verify(ctx context.Context, user *domain.User, code string) error
	Reset(ctx context.Context, user *domain.User) error
}
