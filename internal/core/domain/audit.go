package domain

import "time"

// Audit action names.
const (
	AuditRegister  = "register"
	AuditLogin     = "login"
	AuditLogout    = "logout"
	AuditMFASetup  = "mfa_setup"
	AuditMFAVerify = "mfa_verify"
	AuditMFAReset  = "mfa_reset"
)

// Audit outcomes.
const (
	AuditOK     = "ok"
	AuditDenied = "denied"
	AuditError  = "error"
)

// AuditEvent is one entry in the authentication audit trail.
type AuditEvent struct {
	Username  string
	Action    string
	Outcome   string
	RequestID string
	CreatedAt time.Time
}
