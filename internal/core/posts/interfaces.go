package posts

import "context"

// Lister fetches one page of posts from the blog API.
// Search matching semantics are owned entirely by the server; implementations
// must pass search, pageNumber and pageSize through unmodified.
type Lister interface {
	ListPosts(ctx context.Context, search string, pageNumber, pageSize int) (*Page, error)
}
