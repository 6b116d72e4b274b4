package routes

import (
	"github.com/go-chi/chi/v5"

	imagehandlers "Scribe/internal/api/handlers/images"
	"Scribe/internal/core/images"
)

// RegisterImageRoutes registers the post image endpoint.
// GET /images/{preset}/{postID} where preset is a registered preset name or
// "original".
func RegisterImageRoutes(r chi.Router, service *images.Service) {
	handler := imagehandlers.NewHandler(service)
	r.Get("/images/{preset}/{postID}", handler.HandleImage)
}
