package routes

import (
	"github.com/go-chi/chi/v5"

	"Scribe/internal/api/handlers/post"
	"Scribe/internal/blogapi"
	"Scribe/internal/core/posts"
)

// RegisterPostRoutes registers the post listing and post mutation endpoints.
// onDelete hooks run after a post was deleted.
func RegisterPostRoutes(r chi.Router, client blogapi.Client, listings *posts.Listings, onDelete ...func(postID int64)) {
	listHandler := post.NewListHandler(client)
	listingHandler := post.NewListingHandler(listings)
	createHandler := post.NewCreateHandler(client)
	updateHandler := post.NewUpdateHandler(client)
	deleteHandler := post.NewDeleteHandler(client, onDelete...)

	r.Get("/posts", listHandler.HandleList)
	r.Post("/posts", createHandler.HandleCreate)
	r.Put("/posts/{postID}", updateHandler.HandleUpdate)
	r.Delete("/posts/{postID}", deleteHandler.HandleDelete)

	r.Route("/listing", func(r chi.Router) {
		r.Get("/", listingHandler.HandleCurrent)
		r.Post("/search", listingHandler.HandleSearch)
		r.Post("/next", listingHandler.HandleNext)
		r.Post("/prev", listingHandler.HandlePrev)
		r.Post("/page", listingHandler.HandleGoTo)
		r.Post("/reload", listingHandler.HandleReload)
	})
}
