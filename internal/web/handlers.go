package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"

	"Scribe/internal/api/middleware"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/detail"
	"Scribe/internal/core/images"
	"Scribe/internal/core/likes"
)

// ErrNilDependency is returned by NewHandlers when a dependency is missing.
var ErrNilDependency = errors.New("web: required dependency is nil")

// Handlers provides HTTP handlers for the Scribe web interface.
type Handlers struct {
	templates *Templates
	api       blogapi.Client
	likes     *likes.Tracker
	detail    *detail.Service
	images    *images.Service
	store     sessions.Store
	logger    *slog.Logger
	// maxUploadBytes bounds multipart form bodies.
	maxUploadBytes int64
}

// NewHandlers creates a new Handlers instance with the provided dependencies.
func NewHandlers(
	templates *Templates,
	api blogapi.Client,
	tracker *likes.Tracker,
	detailService *detail.Service,
	imageService *images.Service,
	store sessions.Store,
	maxUploadBytes int64,
	logger *slog.Logger,
) (*Handlers, error) {
	if templates == nil || api == nil || tracker == nil || detailService == nil || imageService == nil || store == nil {
		return nil, ErrNilDependency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		templates:      templates,
		api:            api,
		likes:          tracker,
		detail:         detailService,
		images:         imageService,
		store:          store,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}, nil
}

// NotFoundHandler renders the 404 page for unknown routes.
func (h *Handlers) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found", "There is nothing at this address.")
}

func (h *Handlers) render(w http.ResponseWriter, status int, name string, data any) {
	if err := h.templates.Render(w, status, name, data); err != nil {
		h.logger.Error("[WEB] failed to render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.render(w, status, "error.html", ErrorPageData{
		Page:    Page{Title: title, Flashes: h.popFlashes(w, r)},
		Message: message,
	})
}

// renderLoadError renders the page shown when a post could not be fetched.
func (h *Handlers) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, blogapi.ErrNotFound) {
		h.renderError(w, r, http.StatusNotFound, "Post not found", "This post does not exist or was deleted.")
		return
	}
	h.renderError(w, r, http.StatusBadGateway, "Something went wrong", "Could not load this post. Please try again.")
}

func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func postURL(id int64) string {
	return "/posts/" + strconv.FormatInt(id, 10)
}

// safeReturn accepts only local absolute paths so a form cannot redirect
// visitors off-site.
func safeReturn(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}

func (h *Handlers) visitor(r *http.Request) string {
	return middleware.GetVisitorID(r)
}
