package post

import (
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/core/posts"
)

// ListOutput is one page of the listing plus the state of its controls.
type ListOutput struct {
	Posts      []posts.Post `json:"posts"`
	Search     string       `json:"search"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	HasPrev    bool         `json:"hasPrev"`
	HasNext    bool         `json:"hasNext"`
}

// ListHandler serves the paged, searchable post listing
type ListHandler struct {
	lister posts.Lister
}

// NewListHandler creates a new list handler
func NewListHandler(lister posts.Lister) *ListHandler {
	return &ListHandler{lister: lister}
}

// HandleList handles GET /api/posts?search=...&page=...
// The search string is passed to the blog API unmodified. A page past the end
// of the result is answered with the last page.
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := posts.ParsePage(r.URL.Query().Get("page"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	ctrl := posts.NewController(h.lister, nil)
	writeListing(w, ctrl.Open(r.Context(), posts.NewQuery(r.URL.Query().Get("search"), page)))
}

func writeListing(w http.ResponseWriter, st posts.State) {
	if st.Failed {
		// The controller already logged the cause.
		handlers.WriteError(w, http.StatusBadGateway, "BlogUnavailable", "Could not load posts")
		return
	}

	handlers.WriteJSON(w, http.StatusOK, ListOutput{
		Posts:      st.Posts,
		Search:     st.Query.Search,
		Page:       st.Query.Page,
		TotalPages: st.TotalPages,
		HasPrev:    st.HasPrev(),
		HasNext:    st.HasNext(),
	})
}
