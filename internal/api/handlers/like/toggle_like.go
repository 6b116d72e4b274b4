package like

import (
	"context"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/api/middleware"
	"Scribe/internal/core/likes"
)

// Toggler flips the visitor's like on a post.
type Toggler interface {
	Toggle(ctx context.Context, visitor string, postID int64) (likes.LikeState, error)
}

// ToggleLikeHandler handles like toggling
type ToggleLikeHandler struct {
	likes Toggler
}

// NewToggleLikeHandler creates a new toggle like handler
func NewToggleLikeHandler(likes Toggler) *ToggleLikeHandler {
	return &ToggleLikeHandler{likes: likes}
}

// HandleToggle likes the post if the visitor has not liked it yet, or removes
// the like otherwise.
// POST /api/posts/{postID}/like
//
// Response body: { "liked": true, "likesCount": 4 }
func (h *ToggleLikeHandler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	// Injected by the visitor middleware
	visitor := middleware.GetVisitorID(r)

	state, err := h.likes.Toggle(r.Context(), visitor, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, state)
}
