package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/loginshield/auth-api/internal/core/domain"
)

type captureProcessor struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
}

func newCaptureProcessor(want int) *captureProcessor {
	return &captureProcessor{done: make(chan struct{}), want: want}
}

func (p *captureProcessor) Process(_ context.Context, event domain.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	if len(p.events) == p.want {
		close(p.done)
	}
	return nil
}

func TestDispatcher_DeliversEvents(t *testing.T) {
	proc := newCaptureProcessor(3)
	d := NewDispatcher(2, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditLogin, Outcome: domain.AuditOK})
	d.Record(domain.AuditEvent{Username: "bob", Action: domain.AuditLogin, Outcome: domain.AuditDenied})
	d.Record(domain.AuditEvent{Username: "alice", Action: domain.AuditLogout, Outcome: domain.AuditOK})

	select {
	case <-proc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not processed in time")
	}
}

func TestDispatcher_PerUserOrdering(t *testing.T) {
	const n = 20
	proc := newCaptureProcessor(n)
	d := NewDispatcher(4, proc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < n; i++ {
		action := domain.AuditLogin
		if i%2 == 1 {
			action = domain.AuditLogout
		}
		d.Record(domain.AuditEvent{Username: "alice", Action: action, CreatedAt: time.Unix(int64(i), 0)})
	}

	select {
	case <-proc.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("events not processed in time")
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	for i, event := range proc.events {
		if event.CreatedAt.Unix() != int64(i) {
			t.Fatalf("event %d out of order: %v", i, event.CreatedAt.Unix())
		}
	}
}

func TestDispatcher_ShardStableAcrossCasing(t *testing.T) {
	d := NewDispatcher(8, newCaptureProcessor(0), zerolog.Nop())

	if d.shardIndex("Alice") != d.shardIndex("alice") {
		t.Fatalf("shard index must be case-insensitive like username matching")
	}
}
