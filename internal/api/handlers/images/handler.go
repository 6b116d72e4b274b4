// Package images serves post images, resized to a named preset.
package images

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Scribe/internal/api/handlers"
	"Scribe/internal/core/images"
)

// OriginalPreset is the path segment that requests the unprocessed upload.
const OriginalPreset = "original"

// Service defines what the handler needs from the image service.
type Service interface {
	// Get returns the image for postID rendered with the named preset.
	// An empty preset returns the original bytes.
	Get(ctx context.Context, preset string, postID int64) (*images.Image, error)
}

// Handler handles HTTP requests for post images.
type Handler struct {
	service Service
}

// NewHandler creates a new image handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// HandleImage handles GET /images/{preset}/{postID}
// Images can be replaced by an edit, so responses are cached briefly and
// revalidated by ETag rather than marked immutable.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	preset := chi.URLParam(r, "preset")
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if preset == OriginalPreset {
		preset = ""
	} else if _, err := images.GetPreset(preset); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid preset: "+preset)
		return
	}

	img, err := h.service.Get(r.Context(), preset, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	etag := imageETag(img.Data)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("ETag", etag)

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		slog.Warn("[IMAGES] failed to write image response",
			"preset", preset,
			"post_id", postID,
			"error", err,
		)
	}
}

func imageETag(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf(`"%x"`, h.Sum64())
}

// handleServiceError converts service errors to appropriate HTTP responses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	case errors.Is(err, images.ErrImageNotFound):
		writeErrorResponse(w, http.StatusNotFound, "image not found")
	case errors.Is(err, images.ErrInvalidPreset):
		writeErrorResponse(w, http.StatusBadRequest, "invalid preset")
	default:
		slog.Error("[IMAGES] unhandled service error",
			"error", err,
		)
		writeErrorResponse(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeErrorResponse writes a plain text error response.
// Browsers request these URLs from <img> tags, so JSON bodies buy nothing.
func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(message)); err != nil {
		slog.Warn("[IMAGES] failed to write error response",
			"status", status,
			"message", message,
			"error", err,
		)
	}
}
