package web

import (
	"errors"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/core/likes"
)

// PostHandler handles GET /posts/{postID}.
// The post and its comments come from one load, so the comment counter always
// matches the list shown under it. When only the comments fail, the post is
// shown with a notice in place of the list.
func (h *Handlers) PostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return
	}

	view, err := h.detail.Show(r.Context(), postID)
	if err != nil {
		h.logger.Warn("[WEB] failed to load post", "post_id", postID, "error", err)
		h.renderLoadError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "post.html", PostPageData{
		Page:                Page{Title: view.Post.Title, Flashes: h.popFlashes(w, r)},
		Post:                view.Post,
		Comments:            view.Comments,
		CommentsUnavailable: view.CommentsUnavailable,
		LikeControl: LikeControl{
			PostID: postID,
			Like:   h.likes.State(h.visitor(r), postID, view.Post.LikesCount),
			Return: postURL(postID),
		},
	})
}

// LikeHandler handles POST /posts/{postID}/like and redirects back to the
// page the button was on.
func (h *Handlers) LikeHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return
	}
	back := safeReturn(r.FormValue("return"), postURL(postID))

	if _, err := h.likes.Toggle(r.Context(), h.visitor(r), postID); err != nil {
		// A double submit is dropped silently; the first one still lands.
		if !errors.Is(err, likes.ErrToggleInFlight) {
			h.addFlash(w, r, "Could not update your like. Please try again.")
		}
	}

	h.redirect(w, r, back)
}

// ConfirmDeleteHandler handles GET /posts/{postID}/delete.
func (h *Handlers) ConfirmDeleteHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return
	}

	post, err := h.api.GetPost(r.Context(), postID)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "confirm_delete.html", ConfirmDeleteData{
		Page: Page{Title: "Delete " + post.Title, Flashes: h.popFlashes(w, r)},
		Post: *post,
	})
}

// DeletePostHandler handles POST /posts/{postID}/delete.
func (h *Handlers) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return
	}

	if err := h.api.DeletePost(r.Context(), postID); err != nil {
		h.logger.Warn("[WEB] failed to delete post", "post_id", postID, "error", err)
		h.addFlash(w, r, "Failed to delete post. Please try again.")
		h.redirect(w, r, postURL(postID))
		return
	}

	h.likes.Forget(postID)
	h.images.Invalidate(postID)

	h.logger.Info("[WEB] post deleted", "post_id", postID)
	h.addFlash(w, r, "Post deleted.")
	h.redirect(w, r, "/")
}
