package routes

import (
	"github.com/go-chi/chi/v5"

	"Scribe/internal/api/handlers/like"
)

// RegisterLikeRoutes registers the like toggle endpoint.
func RegisterLikeRoutes(r chi.Router, toggler like.Toggler) {
	toggleHandler := like.NewToggleLikeHandler(toggler)
	r.Post("/posts/{postID}/like", toggleHandler.HandleToggle)
}
