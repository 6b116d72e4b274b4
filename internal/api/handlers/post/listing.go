package post

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/api/middleware"
	"Scribe/internal/core/posts"
)

// maxListingBody bounds listing navigation request bodies.
const maxListingBody = 4 * 1024

// Listings hands out the visitor's listing controller.
type Listings interface {
	For(visitor string) (*posts.Controller, error)
}

// SearchInput is the body of POST /api/listing/search.
type SearchInput struct {
	Search string `json:"search"`
}

// GoToInput is the body of POST /api/listing/page.
type GoToInput struct {
	Page int `json:"page"`
}

// ListingHandler serves a listing that remembers where each visitor is, for
// pages that navigate with next/previous buttons instead of links.
type ListingHandler struct {
	listings Listings
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings Listings) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// HandleCurrent returns the visitor's listing, loading page 1 on first use.
// GET /api/listing
func (h *ListingHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, ctrl *posts.Controller) posts.State {
		return ctrl.State()
	})
}

// HandleSearch changes the search string and goes back to page 1.
// POST /api/listing/search
//
// Request body: { "search": "react" }
func (h *ListingHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var in SearchInput
	if !decodeListingBody(w, r, &in) {
		return
	}
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	writeListing(w, ctrl.SetSearch(r.Context(), in.Search))
}

// HandleNext moves to the next page. On the last page nothing is requested.
// POST /api/listing/next
func (h *ListingHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, ctrl *posts.Controller) posts.State {
		return ctrl.NextPage(ctx)
	})
}

// HandlePrev moves to the previous page. On page 1 nothing is requested.
// POST /api/listing/prev
func (h *ListingHandler) HandlePrev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, ctrl *posts.Controller) posts.State {
		return ctrl.PrevPage(ctx)
	})
}

// HandleGoTo jumps to a page, clamped to the known page range.
// POST /api/listing/page
//
// Request body: { "page": 3 }
func (h *ListingHandler) HandleGoTo(w http.ResponseWriter, r *http.Request) {
	var in GoToInput
	if !decodeListingBody(w, r, &in) {
		return
	}
	h.navigate(w, r, func(ctx context.Context, ctrl *posts.Controller) posts.State {
		return ctrl.GoTo(ctx, in.Page)
	})
}

// HandleReload re-requests the current page.
// POST /api/listing/reload
func (h *ListingHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, func(ctx context.Context, ctrl *posts.Controller) posts.State {
		return ctrl.Reload(ctx)
	})
}

// navigate runs move against the visitor's controller. A controller that has
// never loaded anything loads page 1 first so moves are relative to a known
// page count.
func (h *ListingHandler) navigate(w http.ResponseWriter, r *http.Request, move func(context.Context, *posts.Controller) posts.State) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	if !ctrl.Loaded() {
		if st := ctrl.Load(r.Context(), posts.NewQuery("", 1)); st.Failed {
			writeListing(w, st)
			return
		}
	}
	writeListing(w, move(r.Context(), ctrl))
}

func (h *ListingHandler) controller(w http.ResponseWriter, r *http.Request) (*posts.Controller, bool) {
	// Injected by the visitor middleware
	ctrl, err := h.listings.For(middleware.GetVisitorID(r))
	if err != nil {
		if errors.Is(err, posts.ErrMissingVisitor) {
			handlers.WriteError(w, http.StatusBadRequest, "MissingVisitor", "Session cookie is required")
			return nil, false
		}
		handleServiceError(w, err)
		return nil, false
	}
	return ctrl, true
}

func decodeListingBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxListingBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return false
	}
	return true
}
