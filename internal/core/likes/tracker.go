package likes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxVisitors bounds how many visitors' like flags are remembered.
// The least recently active visitor is forgotten first.
const DefaultMaxVisitors = 10000

// LikeState is what a like control displays for one post.
type LikeState struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

type toggleKey struct {
	visitor string
	postID  int64
}

// Tracker remembers which posts a visitor liked during their session and
// sends like/unlike requests on toggle.
//
// Prior like status is never fetched from the API: a visitor starts with
// every post "not liked", and a new session starts over.
type Tracker struct {
	liker    Liker
	logger   *slog.Logger
	visitors *lru.Cache[string, map[int64]bool]
	inFlight map[toggleKey]struct{}
	mu       sync.Mutex
}

// NewTracker creates a tracker remembering up to maxVisitors visitors.
func NewTracker(liker Liker, maxVisitors int, logger *slog.Logger) (*Tracker, error) {
	if liker == nil {
		return nil, fmt.Errorf("liker is required")
	}
	if maxVisitors <= 0 {
		maxVisitors = DefaultMaxVisitors
	}
	if logger == nil {
		logger = slog.Default()
	}
	visitors, err := lru.New[string, map[int64]bool](maxVisitors)
	if err != nil {
		return nil, fmt.Errorf("failed to create visitor cache: %w", err)
	}
	return &Tracker{
		liker:    liker,
		logger:   logger,
		visitors: visitors,
		inFlight: make(map[toggleKey]struct{}),
	}, nil
}

// IsLiked reports whether visitor liked postID during their session.
func (t *Tracker) IsLiked(visitor string, postID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.likedLocked(visitor, postID)
}

// State combines the visitor's like flag with a server-provided count.
func (t *Tracker) State(visitor string, postID int64, likesCount int) LikeState {
	return LikeState{
		Liked:      t.IsLiked(visitor, postID),
		LikesCount: likesCount,
	}
}

// Toggle adds the visitor's like if the post is not liked, or removes it if
// it is. The flag flips only after the API confirms the change, and the
// returned count is the one the API reported.
//
// Only one toggle per visitor and post may be in flight; a concurrent call
// fails with ErrToggleInFlight without contacting the API. On API failure the
// state is left unchanged and the error is returned.
func (t *Tracker) Toggle(ctx context.Context, visitor string, postID int64) (LikeState, error) {
	if visitor == "" {
		return LikeState{}, ErrMissingVisitor
	}
	if postID <= 0 {
		return LikeState{}, fmt.Errorf("%w: %d", ErrInvalidPostID, postID)
	}

	key := toggleKey{visitor: visitor, postID: postID}

	t.mu.Lock()
	if _, busy := t.inFlight[key]; busy {
		t.mu.Unlock()
		return LikeState{}, ErrToggleInFlight
	}
	t.inFlight[key] = struct{}{}
	liked := t.likedLocked(visitor, postID)
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.inFlight, key)
		t.mu.Unlock()
	}()

	var (
		count int
		err   error
	)
	if liked {
		count, err = t.liker.Unlike(ctx, postID)
	} else {
		count, err = t.liker.Like(ctx, postID)
	}
	if err != nil {
		t.logger.Warn("[LIKES] toggle failed, keeping previous state",
			"visitor", visitor,
			"post_id", postID,
			"liked", liked,
			"error", err)
		return LikeState{}, fmt.Errorf("failed to toggle like: %w", err)
	}

	t.mu.Lock()
	t.setLikedLocked(visitor, postID, !liked)
	t.mu.Unlock()

	t.logger.Debug("[LIKES] toggled",
		"visitor", visitor,
		"post_id", postID,
		"liked", !liked,
		"likes_count", count)

	return LikeState{Liked: !liked, LikesCount: count}, nil
}

// Forget drops everything remembered about a post, e.g. after it was deleted.
func (t *Tracker) Forget(postID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, visitor := range t.visitors.Keys() {
		if flags, ok := t.visitors.Peek(visitor); ok {
			delete(flags, postID)
		}
	}
}

func (t *Tracker) likedLocked(visitor string, postID int64) bool {
	flags, ok := t.visitors.Get(visitor)
	if !ok {
		return false
	}
	return flags[postID]
}

func (t *Tracker) setLikedLocked(visitor string, postID int64, liked bool) {
	flags, ok := t.visitors.Get(visitor)
	if !ok {
		if !liked {
			return
		}
		flags = make(map[int64]bool)
		t.visitors.Add(visitor, flags)
	}
	if liked {
		flags[postID] = true
	} else {
		delete(flags, postID)
	}
}
