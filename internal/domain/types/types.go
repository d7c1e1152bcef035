// Package types contains the JSON shapes served to API consumers.
package types

import "time"

// Event mirrors one detection event as returned by GET /events.
type Event struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Confidence float64   `json:"confidence"`
	Known      bool      `json:"is_known"`
	ObservedAt time.Time `json:"observed_at"`
}

// DailyRecord mirrors one per-subject attendance row as returned by
// GET /attendance.
type DailyRecord struct {
	Name      string    `json:"name"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Count     int       `json:"count"`
	Known     bool      `json:"is_known"`
	Status    string    `json:"status"`
}
