// Package service implements the event synchronizer: the single owner
// of the in-memory event set, fed by a bulk snapshot and a live insert
// stream, with daily attendance derived on read.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/rollcall/internal/adapters/mq/queue"
	"github.com/okian/rollcall/internal/adapters/mq/worker"
	"github.com/okian/rollcall/internal/adapters/repository"
	"github.com/okian/rollcall/internal/adapters/store/pg"
	"github.com/okian/rollcall/internal/domain/admission"
	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/internal/domain/roster"
	"github.com/okian/rollcall/internal/domain/types"
	"github.com/okian/rollcall/pkg/logger"
	"github.com/okian/rollcall/pkg/metrics"
)

// Default synchronizer configuration constants.
const (
	defaultSnapshotLimit = 500
	defaultQueueSize     = 4096
)

// Subscription is the cancellation handle of a live stream.
type Subscription interface {
	ID() string
	Close()
}

// StoreClient is the remote event store surface the synchronizer needs.
type StoreClient interface {
	// Snapshot bulk-reads up to limit events, newest observation first.
	Snapshot(ctx context.Context, limit int) ([]model.Detection, error)

	// Subscribe opens the live insert feed; handler receives decoded
	// events in delivery order.
	Subscribe(ctx context.Context, handler func(model.Detection)) (Subscription, error)
}

// pgAdapter adapts *pg.Client to the StoreClient interface.
type pgAdapter struct {
	c *pg.Client
}

func (a *pgAdapter) Snapshot(ctx context.Context, limit int) ([]model.Detection, error) {
	return a.c.Snapshot(ctx, limit)
}

func (a *pgAdapter) Subscribe(ctx context.Context, handler func(model.Detection)) (Subscription, error) {
	return a.c.Subscribe(ctx, handler)
}

// Service is the event synchronizer.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   StoreClient
	events  repository.Store
	gate    admission.Gate
	agg     roster.Aggregator
	queue   *eventqueue.InMemoryQueue
	applier *worker.Applier
	sub     Subscription

	// Configuration
	snapshotLimit int
	queueSize     int

	// Change listeners, keyed by registration token. Guarded by their
	// own mutex so notifications can fire while s.mu is held.
	listenerMu sync.RWMutex
	listeners  map[uuid.UUID]func()

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a synchronizer with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshotLimit: defaultSnapshotLimit,
		queueSize:     defaultQueueSize,
		agg:           roster.New(),
		listeners:     make(map[uuid.UUID]func()),
		stopCh:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start brings the synchronizer up: initial snapshot load, then the
// live stream. A failed initial snapshot is not fatal; the view starts
// empty and recovers on the next Refresh. A failed subscription is
// fatal to Start since no live data would ever arrive.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("sync")
	}

	s.events = repository.NewEventLog(ctx, repository.WithInitialCapacity(s.snapshotLimit))
	s.gate = admission.NewGate()
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.applier = worker.NewApplier(s.queue, s.gate, s.events,
		worker.WithAdmitHook(func(model.Detection) { s.notifyListeners() }),
	)

	if err := s.loadSnapshot(ctx); err != nil {
		s.logger.Warn(ctx, "initial snapshot load failed; starting with empty view",
			logger.Error(err),
		)
	}

	handler := func(e model.Detection) {
		if !s.queue.Enqueue(ctx, e) {
			s.logger.Warn(ctx, "live event dropped; admission queue unavailable",
				logger.Int64("id", e.ID),
			)
		}
	}
	sub, err := s.store.Subscribe(ctx, handler)
	if err != nil {
		return fmt.Errorf("open live stream: %w", err)
	}
	s.sub = sub

	go s.applier.Run(ctx)
	go s.watchDayBoundary(ctx)

	s.started = true
	s.logger.Info(ctx, "synchronizer started",
		logger.Int("snapshotLimit", s.snapshotLimit),
		logger.Int("queueSize", s.queueSize),
		logger.String("subscription", sub.ID()),
	)

	return nil
}

// Stop tears the synchronizer down. The live stream is closed first so
// nothing new arrives while the pipeline drains. Stop is idempotent.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping synchronizer...")

	if s.sub != nil {
		s.sub.Close()
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.applier != nil {
		if err := s.applier.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "applier did not stop cleanly", logger.Error(err))
		}
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "synchronizer stopped")
}

// Refresh re-runs the snapshot load on demand. The live subscription
// keeps running independently. On failure the event set is untouched
// and the error is returned for the caller to retry.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrNotStarted
	}
	return s.loadSnapshot(ctx)
}

// loadSnapshot fetches the capped bulk snapshot and atomically replaces
// the event set with it. Malformed rows are dropped with a warning; the
// replace happens only after the whole snapshot is screened, so a fetch
// or decode failure never installs partial state.
func (s *Service) loadSnapshot(ctx context.Context) error {
	start := time.Now()

	rows, err := s.store.Snapshot(ctx, s.snapshotLimit)
	if err != nil {
		metrics.RecordSnapshotFailure()
		return fmt.Errorf("load snapshot: %w", err)
	}

	admitted := make([]model.Detection, 0, len(rows))
	for _, e := range rows {
		if err := s.gate.Check(ctx, e); err != nil {
			metrics.RecordEventRejected()
			s.logger.Warn(ctx, "dropped malformed snapshot row",
				logger.Int64("id", e.ID),
				logger.Error(err),
			)
			continue
		}
		admitted = append(admitted, e)
	}

	s.events.ReplaceAll(ctx, admitted)
	metrics.RecordSnapshotLoad(float64(time.Since(start).Milliseconds()), time.Now().Unix())

	s.logger.Info(ctx, "snapshot installed",
		logger.Int("events", len(admitted)),
		logger.Int("rejected", len(rows)-len(admitted)),
	)

	s.notifyListeners()
	return nil
}

// Events returns the current event set, newest-admitted-first.
func (s *Service) Events(ctx context.Context) []types.Event {
	s.mu.RLock()
	log := s.events
	s.mu.RUnlock()
	if log == nil {
		return []types.Event{}
	}

	all := log.All(ctx)
	out := make([]types.Event, len(all))
	for i, e := range all {
		out[i] = types.Event{
			ID:         e.ID,
			Name:       e.Name,
			Confidence: e.Confidence,
			Known:      e.Known,
			ObservedAt: e.ObservedAt,
		}
	}
	return out
}

// DailyRecords derives today's attendance from the current event set.
func (s *Service) DailyRecords(ctx context.Context, now time.Time) []types.DailyRecord {
	s.mu.RLock()
	log := s.events
	s.mu.RUnlock()
	if log == nil {
		return []types.DailyRecord{}
	}

	records := s.agg.Aggregate(log.All(ctx), now)
	metrics.UpdateSubjectsToday(len(records))

	out := make([]types.DailyRecord, len(records))
	for i, r := range records {
		out[i] = types.DailyRecord{
			Name:      r.Name,
			FirstSeen: r.FirstSeen,
			LastSeen:  r.LastSeen,
			Count:     r.Count,
			Known:     r.Known,
			Status:    string(r.Status),
		}
	}
	return out
}

// OnChange registers fn to run after every event-set change (snapshot
// install or live admission) and at day rollover. Returns a token for
// RemoveListener.
func (s *Service) OnChange(fn func()) string {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()

	token := uuid.New()
	s.listeners[token] = fn
	metrics.UpdateListenerCount(len(s.listeners))
	return token.String()
}

// RemoveListener unregisters a change listener. Unknown tokens are no-ops.
func (s *Service) RemoveListener(token string) {
	id, err := uuid.Parse(token)
	if err != nil {
		return
	}

	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	delete(s.listeners, id)
	metrics.UpdateListenerCount(len(s.listeners))
}

// notifyListeners invokes all registered listeners outside the lock.
func (s *Service) notifyListeners() {
	s.listenerMu.RLock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

// watchDayBoundary notifies listeners when the local calendar day
// rolls over, so consumers recompute even without new events.
func (s *Service) watchDayBoundary(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.stopCh:
			timer.Stop()
			return
		case <-timer.C:
			s.logger.Info(ctx, "day boundary crossed; notifying listeners")
			s.notifyListeners()
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"snapshotLimit": s.snapshotLimit,
		"queueSize":     s.queueSize,
		"goroutines":    runtime.NumGoroutine(),
	}

	if s.started {
		stats["eventCount"] = s.events.Len(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		s.listenerMu.RLock()
		stats["listeners"] = len(s.listeners)
		s.listenerMu.RUnlock()
		if s.sub != nil {
			stats["subscription"] = s.sub.ID()
		}
	}

	return stats
}
