package comments

import (
	"encoding/json"
	"net/http"

	"Scribe/internal/api/handlers"
)

// CreateCommentHandler handles comment creation requests
type CreateCommentHandler struct {
	service Service
}

// NewCreateCommentHandler creates a new handler for creating comments
func NewCreateCommentHandler(service Service) *CreateCommentHandler {
	return &CreateCommentHandler{service: service}
}

// HandleCreate handles comment creation requests
// POST /api/posts/{postID}/comments
//
// Request body: { "text": "..." }
// Response: the refreshed { "post": {...}, "comments": [...] }
func (h *CreateCommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBody)

	var input CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	view, err := h.service.AddCommentAndRefresh(r.Context(), postID, input.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, view)
}
