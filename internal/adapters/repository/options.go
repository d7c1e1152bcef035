// Package repository defines the event set store interface and errors.
package repository

import "github.com/okian/rollcall/internal/domain/model"

// Option applies a configuration option to the EventLog.
type Option func(*EventLog)

// WithInitialCapacity pre-sizes the log for an expected snapshot size.
func WithInitialCapacity(n int) Option {
	return func(l *EventLog) {
		if n > 0 {
			l.events = make([]model.Detection, 0, n)
		}
	}
}
