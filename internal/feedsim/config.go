// Package feedsim generates a synthetic detection feed against the
// event store, standing in for a camera pipeline during development.
package feedsim

import "time"

// Config holds configuration for the feed simulator.
type Config struct {
	DatabaseURL string        // Postgres connection string
	Table       string        // Detections table name
	NumEvents   int           // Number of detections to insert; 0 means run until canceled
	Interval    time.Duration // Delay between detection attempts
	Cooldown    time.Duration // Per-subject re-detection suppression window
	Verbose     bool          // Enable verbose logging
}

// Stats holds simulator statistics.
type Stats struct {
	Attempted  int
	Inserted   int
	Suppressed int
	Failed     int
	StartTime  time.Time
	EndTime    time.Time
}
