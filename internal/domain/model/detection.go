// Package model contains domain models passed between layers.
package model

import "time"

// Detection represents one face-recognition event recorded by the
// external store. Detections are immutable; identity is the store-assigned
// id, which increases in insertion order (not necessarily in time order).
type Detection struct {
	ID         int64     // store-assigned, strictly increasing
	Name       string    // recognized subject, or the producer's unknown label
	Confidence float64   // detection/similarity score in [0,1]
	Known      bool      // whether the subject matched a registered identity
	ObservedAt time.Time // producer clock; drives all day-boundary logic
}

// Status classifies a subject's attendance for one calendar day.
type Status string

const (
	// StatusPresent marks a recognized subject seen today.
	StatusPresent Status = "Present"
	// StatusVisitor marks an unrecognized subject seen today.
	StatusVisitor Status = "Visitor"
	// StatusAbsent is reserved for roster-based reporting. No roster of
	// expected attendees exists yet, so aggregation never produces it.
	StatusAbsent Status = "Absent"
)

// DailyRecord is a derived per-subject summary of today's detections.
// Records are recomputed from scratch on every aggregation; they carry
// no identity across recomputations.
type DailyRecord struct {
	Name      string
	FirstSeen time.Time
	LastSeen  time.Time
	Count     int
	Known     bool
	Status    Status
}
