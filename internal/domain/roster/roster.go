// Package roster derives per-subject daily attendance from the event set.
//
// Aggregation is a pure function: the same events and the same "now"
// (within one calendar day) always produce identical output. No process
// state is read or written.
package roster

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/okian/rollcall/internal/domain/model"
)

// Aggregator computes daily attendance records from detection events.
type Aggregator interface {
	// Aggregate filters events to the calendar day containing now (in
	// now's location), groups them by subject name and derives one
	// DailyRecord per subject, sorted by name ascending.
	Aggregate(events []model.Detection, now time.Time) []model.DailyRecord
}

// collatingAggregator implements Aggregator with locale-aware output ordering.
type collatingAggregator struct {
	locale language.Tag
}

// New creates an Aggregator with configuration options.
func New(opts ...Option) Aggregator {
	a := &collatingAggregator{
		locale: language.Und, // locale-neutral collation by default
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregate derives today's attendance records.
//
// Grouping is exact string match on the subject name; case and
// whitespace variants count as distinct subjects. A subject's Known
// flag is last-writer-wins in iteration order over the event set.
// Both behaviors are deliberate carry-overs from the producer side and
// are documented limitations. Status is Present once any event in the
// group is recognized, Visitor otherwise; Absent is never derived.
func (a *collatingAggregator) Aggregate(events []model.Detection, now time.Time) []model.DailyRecord {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	groups := make(map[string]*model.DailyRecord)
	for _, e := range events {
		if e.ObservedAt.Before(dayStart) || !e.ObservedAt.Before(dayEnd) {
			continue
		}

		rec, ok := groups[e.Name]
		if !ok {
			rec = &model.DailyRecord{
				Name:      e.Name,
				FirstSeen: e.ObservedAt,
				LastSeen:  e.ObservedAt,
				Known:     e.Known,
				Status:    statusFor(e.Known),
			}
			groups[e.Name] = rec
		} else {
			if e.ObservedAt.Before(rec.FirstSeen) {
				rec.FirstSeen = e.ObservedAt
			}
			if e.ObservedAt.After(rec.LastSeen) {
				rec.LastSeen = e.ObservedAt
			}
			rec.Known = e.Known
		}

		// Recognition is sticky within a day: one known event keeps the
		// subject Present regardless of later unknown sightings.
		if e.Known {
			rec.Status = model.StatusPresent
		}
		rec.Count++
	}

	out := make([]model.DailyRecord, 0, len(groups))
	for _, rec := range groups {
		out = append(out, *rec)
	}

	c := collate.New(a.locale)
	sort.Slice(out, func(i, j int) bool {
		return c.CompareString(out[i].Name, out[j].Name) < 0
	})

	return out
}

func statusFor(known bool) model.Status {
	if known {
		return model.StatusPresent
	}
	return model.StatusVisitor
}
