// Package repository defines the event set store interface and errors.
package repository

import (
	"context"
	"sync"

	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/pkg/metrics"
)

// EventLog is the in-memory Store implementation.
//
// Internally a newest-first slice plus an id index. A snapshot load
// replaces both wholesale; live admissions prepend in O(1) amortized.
// Guarded by a single RWMutex: one writer (the synchronizer's applier),
// many readers.
type EventLog struct {
	mu     sync.RWMutex
	events []model.Detection // index 0 = most recently admitted
	ids    map[int64]struct{}
}

// NewEventLog creates an empty event log with configuration options.
func NewEventLog(ctx context.Context, opts ...Option) *EventLog {
	l := &EventLog{
		ids: make(map[int64]struct{}),
	}

	for _, opt := range opts {
		opt(l)
	}

	metrics.UpdateEventSetSize(0)

	return l
}

// ReplaceAll installs events as the complete new set.
//
// The snapshot is authoritative for historical state, so this is a full
// replace, never a merge. Rows with a repeated id keep only their first
// occurrence; the store should never produce one, but the uniqueness
// invariant holds here regardless of source.
func (l *EventLog) ReplaceAll(ctx context.Context, events []model.Detection) {
	next := make([]model.Detection, 0, len(events))
	ids := make(map[int64]struct{}, len(events))
	for _, e := range events {
		if _, dup := ids[e.ID]; dup {
			continue
		}
		ids[e.ID] = struct{}{}
		next = append(next, e)
	}

	l.mu.Lock()
	l.events = next
	l.ids = ids
	size := len(l.events)
	l.mu.Unlock()

	metrics.UpdateEventSetSize(size)
}

// Prepend inserts e at the front of the set; duplicate ids are no-ops.
func (l *EventLog) Prepend(ctx context.Context, e model.Detection) bool {
	l.mu.Lock()
	if _, dup := l.ids[e.ID]; dup {
		l.mu.Unlock()
		return false
	}
	l.ids[e.ID] = struct{}{}
	l.events = append([]model.Detection{e}, l.events...)
	size := len(l.events)
	l.mu.Unlock()

	metrics.UpdateEventSetSize(size)
	return true
}

// Has reports whether id is present in the set.
func (l *EventLog) Has(ctx context.Context, id int64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

// All returns a copy of the set, newest-admitted-first.
func (l *EventLog) All(ctx context.Context) []model.Detection {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Detection, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of events in the set.
func (l *EventLog) Len(ctx context.Context) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
