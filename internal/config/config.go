// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseURL is the Postgres connection string of the event store.
	DatabaseURL string `koanf:"database_url"`

	// Table names the detections table read by snapshots.
	Table string `koanf:"table"`

	// Channel names the NOTIFY channel carrying insert payloads.
	Channel string `koanf:"channel"`

	// SnapshotLimit caps how many historical events a snapshot pulls.
	SnapshotLimit int `koanf:"snapshot_limit"`

	// QueueSize bounds the in-memory live admission queue.
	QueueSize int `koanf:"queue_size"`

	// MaxEventsLimit caps GET /events?limit.
	MaxEventsLimit int `koanf:"max_events_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		Table:          "detections",
		Channel:        "detections_insert",
		SnapshotLimit:  500,
		QueueSize:      4096,
		MaxEventsLimit: 1000,
	}
}
