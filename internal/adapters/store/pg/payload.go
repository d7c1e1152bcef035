// Package pg is the Postgres-backed client for the remote detection store.
package pg

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okian/rollcall/internal/domain/model"
)

// rowPayload mirrors the row_to_json shape produced by the insert trigger.
type rowPayload struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	IsKnown    bool     `json:"is_known"`
	CreatedAt  wireTime `json:"created_at"`
}

// wireTime accepts both timestamptz (RFC 3339) and bare timestamp
// renderings of created_at. Bare timestamps are interpreted in local
// time, matching the producer clock semantics.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("%w: empty created_at", ErrBadPayload)
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = ts
		return nil
	}
	ts, err := time.ParseInLocation("2006-01-02T15:04:05.999999", s, time.Local)
	if err != nil {
		return fmt.Errorf("%w: unparseable created_at %q", ErrBadPayload, s)
	}
	t.Time = ts
	return nil
}

// decodePayload turns one notification payload into a domain event.
func decodePayload(data []byte) (model.Detection, error) {
	var row rowPayload
	if err := json.Unmarshal(data, &row); err != nil {
		return model.Detection{}, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}
	return model.Detection{
		ID:         row.ID,
		Name:       row.Name,
		Confidence: row.Confidence,
		Known:      row.IsKnown,
		ObservedAt: row.CreatedAt.Time,
	}, nil
}
