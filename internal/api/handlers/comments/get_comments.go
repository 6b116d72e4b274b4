package comments

import (
	"net/http"

	"Scribe/internal/api/handlers"
)

// GetPostHandler serves a post together with its comments
type GetPostHandler struct {
	service Service
}

// NewGetPostHandler creates a new handler for the detail view
func NewGetPostHandler(service Service) *GetPostHandler {
	return &GetPostHandler{service: service}
}

// HandleGet handles GET /api/posts/{postID}
// Response: { "post": {...}, "comments": [...] }
func (h *GetPostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	view, err := h.service.Load(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, view)
}
