package post

import (
	"net/http"

	"Scribe/internal/api/handlers"
)

// DeleteHandler handles post deletion
type DeleteHandler struct {
	store    Store
	onDelete []func(postID int64)
}

// NewDeleteHandler creates a new delete handler. Each onDelete hook runs
// after the blog API confirmed the deletion, e.g. to drop cached images and
// remembered likes.
func NewDeleteHandler(store Store, onDelete ...func(postID int64)) *DeleteHandler {
	return &DeleteHandler{store: store, onDelete: onDelete}
}

// HandleDelete handles DELETE /api/posts/{postID}
func (h *DeleteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	if err := h.store.DeletePost(r.Context(), postID); err != nil {
		handleServiceError(w, err)
		return
	}

	for _, hook := range h.onDelete {
		hook(postID)
	}

	w.WriteHeader(http.StatusNoContent)
}
