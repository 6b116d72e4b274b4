package post

import (
	"encoding/json"
	"errors"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/core/posts"
)

// CreateHandler handles post creation requests
type CreateHandler struct {
	store Store
}

// NewCreateHandler creates a new create handler
func NewCreateHandler(store Store) *CreateHandler {
	return &CreateHandler{store: store}
}

// HandleCreate handles POST /api/posts
//
// Request body: { "title": "...", "text": "...", "tags": ["a", "b"] }
// Response: the created post with its id
func (h *CreateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	created, err := h.store.CreatePost(r.Context(), draft)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, created)
}

// UpdateHandler handles post edits
type UpdateHandler struct {
	store Store
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(store Store) *UpdateHandler {
	return &UpdateHandler{store: store}
}

// HandleUpdate handles PUT /api/posts/{postID}
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	draft, ok := decodeDraft(w, r)
	if !ok {
		return
	}

	if err := h.store.UpdatePost(r.Context(), postID, draft); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeDraft reads and validates a draft body, writing the error response
// itself when it fails.
func decodeDraft(w http.ResponseWriter, r *http.Request) (posts.Draft, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDraftBody)

	var input DraftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge",
				"Request body too large (max 1MB)")
			return posts.Draft{}, false
		}
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return posts.Draft{}, false
	}

	draft := input.draft()
	if err := draft.Validate(); err != nil {
		handleServiceError(w, err)
		return posts.Draft{}, false
	}
	return draft, true
}
