package ports

import (
	"context"

	"github.com/loginshield/auth-api/internal/core/domain"
)

// AuditRepository persists authentication audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}

// AuditRecorder accepts audit events for asynchronous persistence. Record
// never blocks the request path; the trail is best-effort.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}
