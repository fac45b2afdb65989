package service

import (
	"context"
	"time"

	"github.com/loginshield/auth-api/internal/core/domain"
	"github.com/loginshield/auth-api/internal/core/ports"
)

// AuditService persists authentication audit events. It sits behind the
// queue dispatcher, so Process runs on worker goroutines off the request
// path.
type AuditService struct {
	repo ports.AuditRepository
}

func NewAuditService(repo ports.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return s.repo.Insert(ctx, event)
}
