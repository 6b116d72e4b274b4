package comments

import (
	"encoding/json"
	"net/http"

	"Scribe/internal/api/handlers"
)

// UpdateCommentHandler handles comment edits
type UpdateCommentHandler struct {
	service Service
}

// NewUpdateCommentHandler creates a new handler for editing comments
func NewUpdateCommentHandler(service Service) *UpdateCommentHandler {
	return &UpdateCommentHandler{service: service}
}

// HandleUpdate handles PUT /api/posts/{postID}/comments/{commentID}
//
// Request body: { "text": "..." }
// Response: the refreshed view
func (h *UpdateCommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBody)

	var input CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	if err := h.service.EditComment(r.Context(), postID, commentID, input.Text); err != nil {
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
