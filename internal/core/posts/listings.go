package posts

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxListings bounds how many visitors' listings are kept.
// The least recently active visitor is forgotten first.
const DefaultMaxListings = 10000

// Listings keeps one Controller per visitor, so script-driven pages can move
// relative to the page the visitor is on.
type Listings struct {
	lister      Lister
	logger      *slog.Logger
	controllers *lru.Cache[string, *Controller]
}

// NewListings creates a store remembering up to maxVisitors listings.
func NewListings(lister Lister, maxVisitors int, logger *slog.Logger) (*Listings, error) {
	if lister == nil {
		return nil, ErrNilLister
	}
	if maxVisitors <= 0 {
		maxVisitors = DefaultMaxListings
	}
	if logger == nil {
		logger = slog.Default()
	}
	controllers, err := lru.New[string, *Controller](maxVisitors)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing cache: %w", err)
	}
	return &Listings{
		lister:      lister,
		logger:      logger,
		controllers: controllers,
	}, nil
}

// For returns the visitor's controller, creating an unloaded one on first use.
func (l *Listings) For(visitor string) (*Controller, error) {
	if visitor == "" {
		return nil, ErrMissingVisitor
	}
	if ctrl, ok := l.controllers.Get(visitor); ok {
		return ctrl, nil
	}
	ctrl := NewController(l.lister, l.logger)
	// Another request may have raced us; keep whichever was stored first.
	if prev, found, _ := l.controllers.PeekOrAdd(visitor, ctrl); found {
		return prev, nil
	}
	return ctrl, nil
}

// Len returns the number of remembered listings.
func (l *Listings) Len() int {
	return l.controllers.Len()
}
