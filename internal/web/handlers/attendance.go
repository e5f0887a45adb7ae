package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/facegate/facegate/internal/attendance"
)

// Marker runs the match-and-record workflow for an uploaded capture.
type Marker interface {
	Mark(ctx context.Context, imageKey string) (attendance.Result, error)
}

// AttendanceHandler handles the mark-attendance endpoint.
type AttendanceHandler struct {
	marker Marker
}

// NewAttendanceHandler creates an attendance handler.
func NewAttendanceHandler(marker Marker) *AttendanceHandler {
	return &AttendanceHandler{marker: marker}
}

// markRequest is the mark-attendance request body.
type markRequest struct {
	ImageKey string `json:"imageKey"`
}

// Mark handles POST /mark-attendance. Business outcomes map to the
// structured status field; downstream failures surface as a generic 500
// with the detail kept in the server log.
func (h *AttendanceHandler) Mark(w http.ResponseWriter, r *http.Request) {
	var req markRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "error", "invalid request body")
		return
	}

	if req.ImageKey == "" {
		respondMessage(w, http.StatusBadRequest, "error", "Missing required parameter: imageKey")
		return
	}

	result, err := h.marker.Mark(r.Context(), req.ImageKey)
	if err != nil {
		log.Printf("mark attendance failed for %s: %v", sanitizeForLog(req.ImageKey), err)
		respondMessage(w, http.StatusInternalServerError, "error", "Internal server error")
		return
	}

	status := http.StatusOK
	if result.Status == attendance.StatusLimitExceeded {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, result)
}
