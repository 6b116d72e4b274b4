package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
)

// PageSize is the fixed number of posts requested per listing page.
const PageSize = 10

// Query is the listing state a visitor navigates: a search string and a
// 1-based page number.
type Query struct {
	Search string
	Page   int
}

// NewQuery builds a Query, treating page numbers below 1 as page 1.
func NewQuery(search string, page int) Query {
	if page < 1 {
		page = 1
	}
	return Query{Search: search, Page: page}
}

// WithSearch returns the query for a changed search string.
// Changing the search always starts again from page 1.
func (q Query) WithSearch(search string) Query {
	return Query{Search: search, Page: 1}
}

// HasPrev reports whether the "previous" control is enabled.
func (q Query) HasPrev() bool {
	return q.Page > 1
}

// HasNext reports whether the "next" control is enabled for a listing with
// totalPages pages.
func (q Query) HasNext(totalPages int) bool {
	return q.Page < totalPages
}

// Prev returns the query for the previous page, never going below page 1.
func (q Query) Prev() Query {
	return q.Clamp(q.Page - 1)
}

// Next returns the query for the next page, never going past totalPages.
func (q Query) Next(totalPages int) Query {
	next := q.Page + 1
	if next > totalPages {
		next = totalPages
	}
	return q.Clamp(next)
}

// Clamp returns the query moved to page, clamped to be at least 1.
func (q Query) Clamp(page int) Query {
	if page < 1 {
		page = 1
	}
	return Query{Search: q.Search, Page: page}
}

// State is a snapshot of what the listing displays.
type State struct {
	Posts      []Post
	Query      Query
	TotalPages int
	// Failed is set when the last load hit a transport or server error.
	// Posts is empty in that case and no further detail is exposed.
	Failed bool
}

// HasPrev reports whether the "previous" control is enabled.
func (s State) HasPrev() bool {
	return s.Query.HasPrev()
}

// HasNext reports whether the "next" control is enabled.
func (s State) HasNext() bool {
	return s.Query.HasNext(s.TotalPages)
}

// Controller holds the current query and the last page it loaded.
// Each change issues one list request; a response that arrives after a newer
// request was issued is dropped.
type Controller struct {
	lister Lister
	logger *slog.Logger
	posts  []Post
	query  Query
	total  int
	seq    uint64
	failed bool
	loaded bool
	mu     sync.Mutex
}

// NewController creates a controller positioned on page 1 with an empty search.
func NewController(lister Lister, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		lister: lister,
		logger: logger,
		query:  NewQuery("", 1),
		total:  1,
	}
}

// State returns a snapshot of the current listing.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Load (re)issues the list request for q and replaces the displayed page.
func (c *Controller) Load(ctx context.Context, q Query) State {
	return c.load(ctx, NewQuery(q.Search, q.Page))
}

// Open loads q like Load. When q points past the last page of the result
// the listing moves to the last page instead, so the displayed page is always
// within [1, totalPages].
func (c *Controller) Open(ctx context.Context, q Query) State {
	st := c.Load(ctx, q)
	if st.Failed || st.Query.Page <= st.TotalPages {
		return st
	}
	return c.GoTo(ctx, st.Query.Page)
}

// Loaded reports whether a response has been applied since the controller
// was created.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Reload re-issues the list request for the current query.
func (c *Controller) Reload(ctx context.Context) State {
	return c.load(ctx, c.State().Query)
}

// SetSearch changes the search string, resets to page 1 and loads.
func (c *Controller) SetSearch(ctx context.Context, search string) State {
	return c.load(ctx, c.State().Query.WithSearch(search))
}

// NextPage loads the next page. At the last page the control is disabled
// and no request is sent.
func (c *Controller) NextPage(ctx context.Context) State {
	st := c.State()
	if !st.HasNext() {
		return st
	}
	return c.load(ctx, st.Query.Next(st.TotalPages))
}

// PrevPage loads the previous page. At page 1 the control is disabled and
// no request is sent.
func (c *Controller) PrevPage(ctx context.Context) State {
	st := c.State()
	if !st.HasPrev() {
		return st
	}
	return c.load(ctx, st.Query.Prev())
}

// GoTo loads page, clamped to [1, totalPages] of the last loaded result.
func (c *Controller) GoTo(ctx context.Context, page int) State {
	st := c.State()
	if page > st.TotalPages {
		page = st.TotalPages
	}
	return c.load(ctx, st.Query.Clamp(page))
}

func (c *Controller) load(ctx context.Context, q Query) State {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.query = q
	c.mu.Unlock()

	page, err := c.lister.ListPosts(ctx, q.Search, q.Page, PageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		// Superseded by a newer query while in flight.
		c.logger.Debug("[POSTS] dropping stale page response",
			"search", q.Search,
			"page", q.Page)
		return c.stateLocked()
	}

	c.loaded = true
	if err != nil {
		c.logger.Warn("[POSTS] failed to load posts",
			"search", q.Search,
			"page", q.Page,
			"error", err)
		c.posts = nil
		c.failed = true
		return c.stateLocked()
	}

	c.posts = page.Posts
	c.total = page.TotalPages
	if c.total < 1 {
		c.total = 1
	}
	c.failed = false
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	posts := make([]Post, len(c.posts))
	copy(posts, c.posts)
	return State{
		Posts:      posts,
		Query:      c.query,
		TotalPages: c.total,
		Failed:     c.failed,
	}
}

// ParsePage parses a page number from a query string value.
// An empty value means page 1.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1, fmt.Errorf("%w: got %q", ErrInvalidPage, raw)
	}
	return n, nil
}
