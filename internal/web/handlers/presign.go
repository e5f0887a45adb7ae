package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/facegate/facegate/internal/store"
)

// allowedUploadTypes is the content-type allow-list for capture uploads.
var allowedUploadTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
}

// Presigner issues time-limited write URLs into the capture bucket.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
}

// PresignHandler issues upload tickets for capture images.
type PresignHandler struct {
	presigner Presigner
	keys      *store.KeyMaker
	ttl       time.Duration
}

// NewPresignHandler creates a presign handler. Keys are namespaced by the
// key maker's prefix; URLs expire after ttl.
func NewPresignHandler(presigner Presigner, keys *store.KeyMaker, ttl time.Duration) *PresignHandler {
	return &PresignHandler{
		presigner: presigner,
		keys:      keys,
		ttl:       ttl,
	}
}

// uploadTicket is the issued upload capability. The uploadUrl is a
// single-purpose write URL; the key is where the object will land.
type uploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

// Issue handles GET /getUploadUrl?filename=<str>&filetype=<str>.
func (h *PresignHandler) Issue(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	filetype := r.URL.Query().Get("filetype")

	if filename == "" || filetype == "" {
		respondMessage(w, http.StatusBadRequest, "error", "Missing required parameters: filename, filetype")
		return
	}

	if _, ok := allowedUploadTypes[filetype]; !ok {
		respondMessage(w, http.StatusBadRequest, "error", "Unsupported filetype: "+filetype)
		return
	}

	key := h.keys.Key(filename)
	uploadURL, err := h.presigner.PresignPut(r.Context(), key, filetype, h.ttl)
	if err != nil {
		log.Printf("presign failed for %s: %v", sanitizeForLog(key), err)
		respondMessage(w, http.StatusInternalServerError, "error", "Could not issue upload URL")
		return
	}

	respondJSON(w, http.StatusOK, uploadTicket{
		UploadURL: uploadURL,
		Key:       key,
	})
}
