package likes

import "context"

// Liker adds and removes likes on the blog API.
// Both calls return the authoritative like count after the change.
type Liker interface {
	Like(ctx context.Context, postID int64) (int, error)
	Unlike(ctx context.Context, postID int64) (int, error)
}
