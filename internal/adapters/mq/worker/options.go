// Package worker contains the applier that admits queued live events
// into the event set.
package worker

import (
	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/pkg/logger"
)

// Option applies a configuration option to the Applier.
type Option func(*Applier)

// WithName sets the applier's logger name.
func WithName(name string) Option {
	return func(a *Applier) {
		if name != "" {
			a.name = name
			a.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger for the applier.
func WithLogger(log logger.Logger) Option {
	return func(a *Applier) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithAdmitHook registers fn to run after every successful admission.
func WithAdmitHook(fn func(model.Detection)) Option {
	return func(a *Applier) {
		a.onAdmit = fn
	}
}
