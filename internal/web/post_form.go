package web

import (
	"errors"
	"net/http"

	"Scribe/internal/api/handlers"
	"Scribe/internal/core/images"
	"Scribe/internal/core/posts"
)

// multipartOverhead leaves room for the text fields next to the image.
const multipartOverhead = 1 << 20

// NewPostHandler handles GET /posts/new.
func (h *Handlers) NewPostHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "post_form.html", PostFormData{
		Page:   Page{Title: "New post", Flashes: h.popFlashes(w, r)},
		Action: "/posts",
	})
}

// CreatePostHandler handles POST /posts.
// The post is created first; an image, if one was chosen, is uploaded against
// the new id afterwards.
func (h *Handlers) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	data := PostFormData{
		Page:   Page{Title: "New post"},
		Action: "/posts",
	}

	form, problem := h.parsePostForm(w, r)
	data.Form = form
	if problem != "" {
		data.Error = problem
		h.render(w, http.StatusBadRequest, "post_form.html", data)
		return
	}

	draft := posts.NewDraft(form.Title, form.Text, form.Tags)
	if err := draft.Validate(); err != nil {
		data.Error = validationMessage(err)
		h.render(w, http.StatusBadRequest, "post_form.html", data)
		return
	}

	created, err := h.api.CreatePost(r.Context(), draft)
	if err != nil {
		h.logger.Warn("[WEB] failed to create post", "error", err)
		data.Error = "Failed to create post. Please try again."
		h.render(w, http.StatusBadGateway, "post_form.html", data)
		return
	}
	h.logger.Info("[WEB] post created", "post_id", created.ID)

	if msg := h.uploadFormImage(r, created.ID); msg != "" {
		h.addFlash(w, r, "Post created, but the image was not saved. "+msg)
	} else {
		h.addFlash(w, r, "Post created!")
	}
	h.redirect(w, r, postURL(created.ID))
}

// EditPostHandler handles GET /posts/{postID}/edit.
func (h *Handlers) EditPostHandler(w http.ResponseWriter, r *http.Request) {
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

	h.render(w, http.StatusOK, "post_form.html", PostFormData{
		Page:    Page{Title: "Edit " + post.Title, Flashes: h.popFlashes(w, r)},
		Action:  postURL(postID) + "/edit",
		Editing: true,
		PostID:  postID,
		Form: PostFormValues{
			Title: post.Title,
			Text:  post.Text,
			Tags:  posts.JoinTags(post.Tags),
		},
	})
}

// UpdatePostHandler handles POST /posts/{postID}/edit.
func (h *Handlers) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	postID, err := handlers.ParseID(r, "postID")
	if err != nil {
		h.NotFoundHandler(w, r)
		return
	}

	data := PostFormData{
		Page:    Page{Title: "Edit post"},
		Action:  postURL(postID) + "/edit",
		Editing: true,
		PostID:  postID,
	}

	form, problem := h.parsePostForm(w, r)
	data.Form = form
	if problem != "" {
		data.Error = problem
		h.render(w, http.StatusBadRequest, "post_form.html", data)
		return
	}

	draft := posts.NewDraft(form.Title, form.Text, form.Tags)
	if err := draft.Validate(); err != nil {
		data.Error = validationMessage(err)
		h.render(w, http.StatusBadRequest, "post_form.html", data)
		return
	}

	if err := h.api.UpdatePost(r.Context(), postID, draft); err != nil {
		h.logger.Warn("[WEB] failed to update post", "post_id", postID, "error", err)
		data.Error = "Failed to update post. Please try again."
		h.render(w, http.StatusBadGateway, "post_form.html", data)
		return
	}

	if msg := h.uploadFormImage(r, postID); msg != "" {
		h.addFlash(w, r, "Post updated, but the image was not saved. "+msg)
	} else {
		h.addFlash(w, r, "Post updated!")
	}
	h.redirect(w, r, postURL(postID))
}

// parsePostForm reads the create/edit form. The second result is a message
// for the visitor when the form could not be read.
func (h *Handlers) parsePostForm(w http.ResponseWriter, r *http.Request) (PostFormValues, string) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Debug("[WEB] failed to parse post form", "error", err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return PostFormValues{}, "The form is too large. Choose a smaller image."
		}
		return PostFormValues{}, "The form could not be read. Please try again."
	}
	return PostFormValues{
		Title: r.FormValue("title"),
		Text:  r.FormValue("text"),
		Tags:  r.FormValue("tags"),
	}, ""
}

// uploadFormImage uploads the "image" file field, if any. It returns a
// message for the visitor when the upload failed and "" otherwise.
func (h *Handlers) uploadFormImage(r *http.Request, postID int64) string {
	if r.MultipartForm == nil {
		return ""
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		// http.ErrMissingFile: no image chosen.
		return ""
	}
	defer file.Close()
	if header.Size == 0 {
		return ""
	}

	err = h.images.Upload(r.Context(), postID, images.Upload{Body: file, Filename: header.Filename})
	switch {
	case err == nil:
		return ""
	case errors.Is(err, images.ErrUnsupportedFormat):
		return "Images must be JPEG, PNG or WebP."
	case errors.Is(err, images.ErrUploadTooLarge):
		return "The image is too large."
	default:
		return "Please try again."
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, posts.ErrTitleRequired):
		return "Title is required."
	case errors.Is(err, posts.ErrTextRequired):
		return "Text is required."
	default:
		return "Please check the form."
	}
}
