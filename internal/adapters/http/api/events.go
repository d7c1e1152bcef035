// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/rollcall/internal/domain/types"
)

// EventDependencies defines the interface for event read operations.
type EventDependencies interface {
	Events(ctx context.Context) []types.Event
}

// EventsHandler handles event listing requests.
type EventsHandler struct {
	deps     EventDependencies
	maxLimit int
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, maxLimit int) *EventsHandler {
	return &EventsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetEvents handles GET /events?limit=N requests. The limit is
// optional; without it the whole set is returned, newest first.
func (h *EventsHandler) HandleGetEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_events"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	events := h.deps.Events(r.Context())

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w", op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%s: %w", op, ErrBadRequest))
			return
		}
		if n < len(events) {
			events = events[:n]
		}
	}

	writeJSON(w, http.StatusOK, events)
}
