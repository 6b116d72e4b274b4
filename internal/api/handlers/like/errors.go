// Package like exposes the like toggle as a JSON endpoint.
package like

import (
	"errors"
	"log/slog"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/likes"
)

// handleServiceError converts toggle errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, likes.ErrToggleInFlight):
		handlers.WriteError(w, http.StatusConflict, "ToggleInFlight", "A like change for this post is already in progress")
	case errors.Is(err, likes.ErrMissingVisitor):
		handlers.WriteError(w, http.StatusBadRequest, "MissingVisitor", "Session cookie is required")
	case errors.Is(err, likes.ErrInvalidPostID):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
	case errors.Is(err, blogapi.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	case blogapi.IsUnavailable(err):
		handlers.WriteError(w, http.StatusBadGateway, "BlogUnavailable", "The blog service is unavailable")
	default:
		slog.Error("[LIKES] toggle handler error", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}
