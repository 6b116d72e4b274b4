// Package comments exposes a post's detail view and its comment mutations as
// JSON endpoints. Every mutation answers with the freshly reloaded view.
package comments

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/detail"
)

// maxCommentBody bounds comment request bodies.
const maxCommentBody = 100 * 1024

// Service is the subset of the detail service the handlers use.
type Service interface {
	Load(ctx context.Context, postID int64) (*detail.View, error)
	Refresh(ctx context.Context, postID int64) (*detail.View, error)
	AddCommentAndRefresh(ctx context.Context, postID int64, text string) (*detail.View, error)
	EditComment(ctx context.Context, postID, commentID int64, text string) error
	DeleteComment(ctx context.Context, postID, commentID int64) error
}

// CommentInput is the request body for creating or editing a comment.
type CommentInput struct {
	Text string `json:"text"`
}

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, detail.ErrEmptyComment):
		handlers.WriteError(w, http.StatusBadRequest, "EmptyComment", "Comment text is required")

	case errors.Is(err, detail.ErrInvalidPostID):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")

	case errors.Is(err, blogapi.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "NotFound", "Post or comment not found")

	case errors.Is(err, blogapi.ErrBadRequest):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "The blog service rejected the request")

	case blogapi.IsUnavailable(err):
		handlers.WriteError(w, http.StatusBadGateway, "BlogUnavailable", "The blog service is unavailable")

	default:
		// Don't leak internal error details to clients
		slog.Error("[DETAIL] unexpected error in comments handler", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
