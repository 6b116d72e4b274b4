package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"Scribe/internal/api/middleware"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/detail"
	"Scribe/internal/core/images"
	"Scribe/internal/core/likes"
	"Scribe/internal/core/posts"
)

// APIDeps are the services behind the JSON endpoints.
type APIDeps struct {
	Client   blogapi.Client
	Listings *posts.Listings
	Likes    *likes.Tracker
	Detail   *detail.Service
	Images   *images.Service
	Limiter  *middleware.RateLimiter
	// AllowedOrigins may call the JSON API from a browser. Empty means same
	// origin only.
	AllowedOrigins []string
}

// RegisterAPIRoutes mounts the JSON endpoints under /api.
func RegisterAPIRoutes(r chi.Router, deps APIDeps) {
	r.Route("/api", func(r chi.Router) {
		if len(deps.AllowedOrigins) > 0 {
			r.Use(corsMiddleware(deps.AllowedOrigins))
		}
		if deps.Limiter != nil {
			r.Use(deps.Limiter.Middleware)
		}

		RegisterPostRoutes(r, deps.Client, deps.Listings, deps.Likes.Forget, deps.Images.Invalidate)
		RegisterCommentRoutes(r, deps.Detail)
		RegisterLikeRoutes(r, deps.Likes)
	})
}

// corsMiddleware creates a CORS middleware for the JSON API with specific
// allowed origins. Credentials are allowed so the visitor cookie travels.
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-CSRF-Token",
		},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})
}
