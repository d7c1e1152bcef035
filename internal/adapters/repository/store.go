// Package repository defines the event set store interface and errors.
package repository

import (
	"context"

	"github.com/okian/rollcall/internal/domain/model"
)

// Store provides access to the canonical in-memory event set.
//
// The set is unique by event id and ordered newest-admitted-first: the
// most recently learned event is always first, regardless of its
// observation timestamp. The synchronizer is the only writer; all
// other components read through All.
type Store interface {
	// ReplaceAll atomically installs events as the complete new event
	// set, discarding prior contents. The slice order is adopted as-is.
	ReplaceAll(ctx context.Context, events []model.Detection)

	// Prepend inserts e at the logical front of the set. Returns false
	// without mutating anything if the id is already present.
	Prepend(ctx context.Context, e model.Detection) bool

	// Has reports whether an event with the given id is in the set.
	Has(ctx context.Context, id int64) bool

	// All returns a copy of the event set, newest-admitted-first.
	// Readers never observe a partially applied mutation.
	All(ctx context.Context) []model.Detection

	// Len returns the current number of events in the set.
	Len(ctx context.Context) int
}
