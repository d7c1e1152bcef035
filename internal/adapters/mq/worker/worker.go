// Package worker contains the applier that admits queued live events
// into the event set.
//
// Exactly one applier runs per synchronizer. Event-set mutation is
// single-writer by design; admission of one event completes before the
// next is taken off the queue, so readers never observe a torn insert
// and delivery order is preserved.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/pkg/logger"
	"github.com/okian/rollcall/pkg/metrics"
)

// Shutdown deadline for the applier loop.
const (
	applierShutdownTimeout = 5 * time.Second
)

// Event is what the applier reads off the queue.
type Event = model.Detection

// Queue defines how the applier receives events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Gate validates events before admission.
type Gate interface {
	Check(ctx context.Context, e model.Detection) error
}

// Log is the front-insert surface of the event set.
type Log interface {
	Prepend(ctx context.Context, e model.Detection) bool
}

// Applier drains the queue into the event set.
type Applier struct {
	queue Queue
	gate  Gate
	log   Log
	name  string

	// onAdmit is invoked after each successful admission, from the
	// applier goroutine.
	onAdmit func(model.Detection)

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewApplier creates an applier with configuration options.
func NewApplier(queue Queue, gate Gate, log Log, opts ...Option) *Applier {
	a := &Applier{
		queue:    queue,
		gate:     gate,
		log:      log,
		name:     "applier",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("applier"),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run starts the admission loop and blocks until ctx is canceled, the
// queue closes, or Shutdown is called.
func (a *Applier) Run(ctx context.Context) {
	defer close(a.done)

	events := a.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.shutdown:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			a.admit(ctx, e)
		}
	}
}

// Shutdown stops the applier, waiting for the in-flight event to finish.
func (a *Applier) Shutdown(ctx context.Context) error {
	close(a.shutdown)

	select {
	case <-a.done:
		return nil
	case <-time.After(applierShutdownTimeout):
		a.logger.Warn(ctx, "applier shutdown timed out")
		return fmt.Errorf("applier shutdown timed out after %s", applierShutdownTimeout)
	}
}

// admit screens and inserts one event.
func (a *Applier) admit(ctx context.Context, e model.Detection) {
	if err := a.gate.Check(ctx, e); err != nil {
		metrics.RecordEventRejected()
		a.logger.Warn(ctx, "rejected malformed event",
			logger.Int64("id", e.ID),
			logger.Error(err),
		)
		return
	}

	if !a.log.Prepend(ctx, e) {
		metrics.RecordEventDuplicate()
		a.logger.Debug(ctx, "skipped duplicate event", logger.Int64("id", e.ID))
		return
	}

	metrics.RecordEventAdmitted()
	a.logger.Debug(ctx, "admitted live event",
		logger.Int64("id", e.ID),
		logger.String("name", e.Name),
		logger.Bool("known", e.Known),
	)

	if a.onAdmit != nil {
		a.onAdmit(e)
	}
}
