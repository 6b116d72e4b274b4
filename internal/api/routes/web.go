package routes

import (
	"github.com/go-chi/chi/v5"

	"Scribe/internal/web"
)

// RegisterWebRoutes registers the server-rendered pages.
// Form posts redirect back to a GET page (post/redirect/get), so a reload
// never resubmits a form.
func RegisterWebRoutes(r chi.Router, handlers *web.Handlers) {
	r.Get("/", handlers.HomeHandler)

	r.Get("/posts/new", handlers.NewPostHandler)
	r.Post("/posts", handlers.CreatePostHandler)

	r.Route("/posts/{postID}", func(r chi.Router) {
		r.Get("/", handlers.PostHandler)
		r.Post("/like", handlers.LikeHandler)

		r.Get("/edit", handlers.EditPostHandler)
		r.Post("/edit", handlers.UpdatePostHandler)

		r.Get("/delete", handlers.ConfirmDeleteHandler)
		r.Post("/delete", handlers.DeletePostHandler)

		r.Post("/comments", handlers.AddCommentHandler)
		r.Get("/comments/{commentID}/edit", handlers.EditCommentHandler)
		r.Post("/comments/{commentID}", handlers.UpdateCommentHandler)
		r.Post("/comments/{commentID}/delete", handlers.DeleteCommentHandler)
	})

	r.NotFound(handlers.NotFoundHandler)
}
