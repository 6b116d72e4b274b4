package web

import (
	"errors"
	"net/http"
	"strconv"

	"Scribe/internal/api/handlers"
	"Scribe/internal/core/detail"
)

// AddCommentHandler handles POST /posts/{postID}/comments.
// The redirect reloads post and comments together, which is the refresh the
// new comment needs.
func (h *Handlers) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return
	}

	err = h.detail.AddComment(r.Context(), postID, r.FormValue("text"))
	if err != nil && !errors.Is(err, detail.ErrEmptyComment) {
		h.addFlash(w, r, "Could not add your comment. Please try again.")
	}

	h.redirect(w, r, postURL(postID)+"#comments")
}

// EditCommentHandler handles GET /posts/{postID}/comments/{commentID}/edit.
func (h *Handlers) EditCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}

	comment, err := h.detail.Comment(r.Context(), postID, commentID)
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, "comment_form.html", CommentFormData{
		Page:    Page{Title: "Edit comment", Flashes: h.popFlashes(w, r)},
		Comment: *comment,
	})
}

// UpdateCommentHandler handles POST /posts/{postID}/comments/{commentID}.
func (h *Handlers) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}

	err := h.detail.EditComment(r.Context(), postID, commentID, r.FormValue("text"))
	switch {
	case err == nil:
		h.redirect(w, r, postURL(postID)+"#comments")
	case errors.Is(err, detail.ErrEmptyComment):
		h.addFlash(w, r, "Comment text is required.")
		h.redirect(w, r, commentEditURL(postID, commentID))
	default:
		h.addFlash(w, r, "Could not save your comment. Please try again.")
		h.redirect(w, r, commentEditURL(postID, commentID))
	}
}

// DeleteCommentHandler handles POST /posts/{postID}/comments/{commentID}/delete.
func (h *Handlers) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, commentID, ok := h.commentIDs(w, r)
	if !ok {
		return
	}

	if err := h.detail.DeleteComment(r.Context(), postID, commentID); err != nil {
		h.addFlash(w, r, "Could not delete the comment. Please try again.")
	}

	h.redirect(w, r, postURL(postID)+"#comments")
}

func commentEditURL(postID, commentID int64) string {
	return postURL(postID) + "/comments/" + strconv.FormatInt(commentID, 10) + "/edit"
}

func (h *Handlers) commentIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return 0, 0, false
	}
	commentID, err := handlers.ParseID(r, "commentID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return 0, 0, false
	}
	return postID, commentID, true
}
