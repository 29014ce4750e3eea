package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
)

// HealthHandler reports whether the console can serve requests.
type HealthHandler struct {
	journal storage.Journal
	log     logrus.FieldLogger
}

// NewHealthHandler creates a health handler. journal may be nil.
func NewHealthHandler(journal storage.Journal, log logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{journal: journal, log: log}
}

// Get answers 200 when the action journal is reachable and 503 otherwise.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if h.journal == nil {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if _, err := h.journal.CountActions(ctx); err != nil {
		h.log.WithError(err).Warn("health check: journal unavailable")
		resp["status"] = "degraded"
		resp["journal"] = "unavailable"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp["journal"] = "ok"
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
