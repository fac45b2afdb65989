package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/loginshield/auth-api/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Processor persists one audit event; implemented by service.AuditService.
type Processor interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}

// Dispatcher fans audit events out to a fixed set of workers, sharded by
// username via consistent hashing so each account's trail stays ordered.
// Record never blocks the request path beyond channelBuffer capacity.
type Dispatcher struct {
	workers []chan domain.AuditEvent
	proc    Processor
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, proc Processor, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		proc:    proc,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// events still queued at shutdown are dropped, the trail is best-effort.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an event on the worker owning its username shard.
func (d *Dispatcher) Record(event domain.AuditEvent) {
	d.workers[d.shardIndex(event.Username)] <- event
}

func (d *Dispatcher) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(domain.NormalizeUsername(username)))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.proc.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("username", event.Username).
					Str("action", event.Action).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
