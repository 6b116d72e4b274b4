// Package post exposes post listing and post mutations as JSON endpoints.
package post

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/posts"
)

// maxDraftBody bounds create and update request bodies.
const maxDraftBody = 1 * 1024 * 1024

// Store is the part of the blog API the post mutation handlers call.
type Store interface {
	CreatePost(ctx context.Context, draft posts.Draft) (*posts.Post, error)
	UpdatePost(ctx context.Context, id int64, draft posts.Draft) error
	DeletePost(ctx context.Context, id int64) error
}

// DraftInput is the request body for creating or updating a post.
type DraftInput struct {
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Tags  []string `json:"tags"`
}

func (in DraftInput) draft() posts.Draft {
	return posts.Draft{Title: in.Title, Text: in.Text, Tags: posts.CleanTags(in.Tags)}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case posts.IsValidationError(err):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, posts.ErrInvalidPage):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case errors.Is(err, blogapi.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")

	case errors.Is(err, blogapi.ErrBadRequest):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "The blog service rejected the request")

	case blogapi.IsUnavailable(err):
		handlers.WriteError(w, http.StatusBadGateway, "BlogUnavailable", "The blog service is unavailable")

	default:
		slog.Error("[POSTS] unexpected error in post handler", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
