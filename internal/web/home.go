package web

import (
	"net/http"
	"net/url"
	"strconv"

	"Scribe/internal/core/posts"
)

// HomeHandler handles GET / and renders one page of the listing.
// The query lives in the URL: ?search=...&page=N.
func (h *Handlers) HomeHandler(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page, err := posts.ParsePage(values.Get("page"))
	if err != nil {
		h.logger.Debug("[WEB] ignoring invalid page parameter", "error", err)
	}

	ctrl := posts.NewController(h.api, h.logger)
	st := ctrl.Open(r.Context(), posts.NewQuery(values.Get("search"), page))

	visitor := h.visitor(r)
	current := r.URL.RequestURI()
	cards := make([]PostCard, 0, len(st.Posts))
	for _, p := range st.Posts {
		cards = append(cards, PostCard{
			Post:    p,
			Excerpt: posts.Excerpt(p.Text, posts.ExcerptLength),
			LikeControl: LikeControl{
				PostID: p.ID,
				Like:   h.likes.State(visitor, p.ID, p.LikesCount),
				Return: current,
			},
		})
	}

	title := "All posts"
	if st.Query.Search != "" {
		title = "Search: " + st.Query.Search
	}

	h.render(w, http.StatusOK, "home.html", HomePageData{
		Page:       Page{Title: title, Flashes: h.popFlashes(w, r)},
		Query:      st.Query,
		Cards:      cards,
		TotalPages: st.TotalPages,
		Failed:     st.Failed,
		HasPrev:    st.HasPrev(),
		HasNext:    st.HasNext(),
		PrevURL:    listURL(st.Query.Prev()),
		NextURL:    listURL(st.Query.Next(st.TotalPages)),
	})
}

func listURL(q posts.Query) string {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Page > 1 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if len(values) == 0 {
		return "/"
	}
	return "/?" + values.Encode()
}
