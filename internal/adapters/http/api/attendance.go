// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/rollcall/internal/domain/types"
)

// AttendanceDependencies defines the interface for attendance derivation.
type AttendanceDependencies interface {
	DailyRecords(ctx context.Context, now time.Time) []types.DailyRecord
}

// AttendanceHandler handles daily attendance requests.
type AttendanceHandler struct {
	deps AttendanceDependencies
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(deps AttendanceDependencies) *AttendanceHandler {
	return &AttendanceHandler{deps: deps}
}

// HandleGetAttendance handles GET /attendance requests. Records cover
// the current local calendar day, one per subject, sorted by name.
func (h *AttendanceHandler) HandleGetAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	records := h.deps.DailyRecords(r.Context(), time.Now())
	writeJSON(w, http.StatusOK, records)
}
