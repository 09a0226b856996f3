package common

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := h.health(ctx); err != nil {
			h.log.InternalError("health: dependency check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
