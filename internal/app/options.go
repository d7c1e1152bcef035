// Package service implements the event synchronizer.
package service

import (
	"github.com/okian/rollcall/internal/adapters/store/pg"
	"github.com/okian/rollcall/internal/domain/roster"
	"github.com/okian/rollcall/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithClient wires the Postgres store client.
func WithClient(c *pg.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.store = &pgAdapter{c: c}
		}
	}
}

// WithStore wires any StoreClient implementation. Intended for tests
// and alternative store backends.
func WithStore(store StoreClient) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSnapshotLimit caps the historical backfill size. Live events
// admitted after the snapshot do not count against the cap.
func WithSnapshotLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.snapshotLimit = limit
		}
	}
}

// WithQueueSize bounds the live admission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithAggregator sets a custom daily aggregator.
func WithAggregator(agg roster.Aggregator) Option {
	return func(s *Service) {
		if agg != nil {
			s.agg = agg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}
