package detail

import (
	"context"

	"Scribe/internal/core/posts"
)

// API is the part of the blog API a detail view reads and mutates.
type API interface {
	GetPost(ctx context.Context, id int64) (*posts.Post, error)
	ListComments(ctx context.Context, postID int64) ([]posts.Comment, error)
	GetComment(ctx context.Context, postID, commentID int64) (*posts.Comment, error)
	CreateComment(ctx context.Context, postID int64, text string) error
	UpdateComment(ctx context.Context, postID, commentID int64, text string) error
	DeleteComment(ctx context.Context, postID, commentID int64) error
}
