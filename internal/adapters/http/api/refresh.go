// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/rollcall/internal/domain/types"
)

// RefreshDependencies defines the interface for on-demand snapshot reloads.
type RefreshDependencies interface {
	Refresh(ctx context.Context) error
	Events(ctx context.Context) []types.Event
	DailyRecords(ctx context.Context, now time.Time) []types.DailyRecord
}

// RefreshHandler handles manual refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandlePostRefresh handles POST /refresh requests. On failure the
// previously installed event set keeps serving and 502 is returned.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := h.deps.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "refresh_failed", fmt.Errorf("%s: %w", op, err))
		return
	}

	writeJSON(w, http.StatusOK, ackResponse{
		Status: "refreshed",
		Events: len(h.deps.Events(r.Context())),
	})
}
