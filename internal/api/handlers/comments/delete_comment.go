package comments

import (
	"net/http"

	"Scribe/internal/api/handlers"
)

// DeleteCommentHandler handles comment deletion
type DeleteCommentHandler struct {
	service Service
}

// NewDeleteCommentHandler creates a new handler for deleting comments
func NewDeleteCommentHandler(service Service) *DeleteCommentHandler {
	return &DeleteCommentHandler{service: service}
}

// HandleDelete handles DELETE /api/posts/{postID}/comments/{commentID}
// Response: the refreshed view
func (h *DeleteCommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}
	commentID, err := handlers.ParseID(r, "commentID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid comment id")
		return
	}

	if err := h.service.DeleteComment(r.Context(), postID, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	view, err := h.service.Refresh(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, view)
}
