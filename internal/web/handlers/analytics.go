package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/facegate/facegate/internal/analytics"
	"github.com/facegate/facegate/internal/store"
)

// ObjectGetter reads published analytics objects.
type ObjectGetter interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// AnalyticsHandler serves the latest published aggregation output.
type AnalyticsHandler struct {
	objects ObjectGetter
}

// NewAnalyticsHandler creates an analytics handler reading from the
// analytics bucket.
func NewAnalyticsHandler(objects ObjectGetter) *AnalyticsHandler {
	return &AnalyticsHandler{objects: objects}
}

// Get handles GET /analytics/{period} where period is "daily" or "weekly".
func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var key string
	switch chi.URLParam(r, "period") {
	case "daily":
		key = analytics.DailyKey
	case "weekly":
		key = analytics.WeeklyKey
	default:
		respondMessage(w, http.StatusBadRequest, "error", "period must be daily or weekly")
		return
	}

	body, err := h.objects.Get(r.Context(), key)
	if err != nil {
		if store.IsNotFound(err) {
			respondMessage(w, http.StatusNotFound, "error", "analytics not generated yet")
			return
		}
		log.Printf("reading %s failed: %v", key, err)
		respondMessage(w, http.StatusInternalServerError, "error", "Could not read analytics")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
