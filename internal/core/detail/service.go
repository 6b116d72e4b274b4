// Package detail loads a single post together with its comments and applies
// comment mutations.
package detail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"Scribe/internal/core/posts"

	"golang.org/x/sync/errgroup"
)

// View is a post and its comments as fetched by one refresh.
// The post's CommentsCount and the comment list always come from the same
// refresh. CommentsUnavailable is only ever set by Show; the list is empty
// then and the counter must not be presented as describing it.
type View struct {
	Comments            []posts.Comment `json:"comments"`
	Post                posts.Post      `json:"post"`
	CommentsUnavailable bool            `json:"commentsUnavailable,omitempty"`
}

// Service implements the detail view operations.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService creates a detail service.
// Returns an error if api is nil.
func NewService(api API, logger *slog.Logger) (*Service, error) {
	if api == nil {
		return nil, ErrNilAPI
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, logger: logger}, nil
}

// Load fetches the post and its comments concurrently. It returns a View only
// when both fetches succeed; otherwise it returns the first error and the
// other fetch is cancelled.
func (s *Service) Load(ctx context.Context, postID int64) (*View, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPostID, postID)
	}

	var (
		post     *posts.Post
		comments []posts.Comment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.api.GetPost(gctx, postID)
		if err != nil {
			return fmt.Errorf("failed to fetch post: %w", err)
		}
		post = p
		return nil
	})
	g.Go(func() error {
		c, err := s.api.ListComments(gctx, postID)
		if err != nil {
			return fmt.Errorf("failed to fetch comments: %w", err)
		}
		comments = c
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = []posts.Comment{}
	}
	return &View{Post: *post, Comments: comments}, nil
}

// Show fetches a view for first display. Unlike Load, a failed comment fetch
// does not fail the page: the post is returned with an empty comment list and
// CommentsUnavailable set. A failed post fetch is still an error.
func (s *Service) Show(ctx context.Context, postID int64) (*View, error) {
	if postID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPostID, postID)
	}

	var (
		post        *posts.Post
		comments    []posts.Comment
		commentsErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.api.GetPost(gctx, postID)
		if err != nil {
			return fmt.Errorf("failed to fetch post: %w", err)
		}
		post = p
		return nil
	})
	g.Go(func() error {
		comments, commentsErr = s.api.ListComments(gctx, postID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &View{Post: *post, Comments: comments}
	if commentsErr != nil {
		s.logger.Warn("[DETAIL] showing post without comments",
			"post_id", postID,
			"error", commentsErr)
		view.Comments = nil
		view.CommentsUnavailable = true
	}
	if view.Comments == nil {
		view.Comments = []posts.Comment{}
	}
	return view, nil
}

// Refresh re-fetches a view after a mutation. Both pieces are replaced
// together or the refresh fails as a whole, so a caller never pairs a new
// comment list with an old comment counter.
func (s *Service) Refresh(ctx context.Context, postID int64) (*View, error) {
	view, err := s.Load(ctx, postID)
	if err != nil {
		s.logger.Warn("[DETAIL] refresh failed",
			"post_id", postID,
			"error", err)
		return nil, err
	}
	return view, nil
}

// AddComment posts a comment. Whitespace-only text is rejected with
// ErrEmptyComment before any request is sent. The text itself is sent as
// entered.
func (s *Service) AddComment(ctx context.Context, postID int64, text string) error {
	if postID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPostID, postID)
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	if err := s.api.CreateComment(ctx, postID, text); err != nil {
		s.logger.Warn("[DETAIL] failed to add comment",
			"post_id", postID,
			"error", err)
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

// AddCommentAndRefresh adds a comment and returns the refreshed view.
func (s *Service) AddCommentAndRefresh(ctx context.Context, postID int64, text string) (*View, error) {
	if err := s.AddComment(ctx, postID, text); err != nil {
		return nil, err
	}
	return s.Refresh(ctx, postID)
}

// Comment returns one comment for the edit form.
func (s *Service) Comment(ctx context.Context, postID, commentID int64) (*posts.Comment, error) {
	comment, err := s.api.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comment: %w", err)
	}
	return comment, nil
}

// EditComment replaces a comment's text. Whitespace-only text is rejected
// with ErrEmptyComment.
func (s *Service) EditComment(ctx context.Context, postID, commentID int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	if err := s.api.UpdateComment(ctx, postID, commentID, text); err != nil {
		s.logger.Warn("[DETAIL] failed to edit comment",
			"post_id", postID,
			"comment_id", commentID,
			"error", err)
		return fmt.Errorf("failed to edit comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment.
func (s *Service) DeleteComment(ctx context.Context, postID, commentID int64) error {
	if err := s.api.DeleteComment(ctx, postID, commentID); err != nil {
		s.logger.Warn("[DETAIL] failed to delete comment",
			"post_id", postID,
			"comment_id", commentID,
			"error", err)
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
