package routes

import (
	"github.com/go-chi/chi/v5"

	"Scribe/internal/api/handlers/comments"
)

// RegisterCommentRoutes registers the detail view and comment endpoints.
// Every comment mutation responds with the reloaded post and comment list.
func RegisterCommentRoutes(r chi.Router, service comments.Service) {
	getHandler := comments.NewGetPostHandler(service)
	createHandler := comments.NewCreateCommentHandler(service)
	updateHandler := comments.NewUpdateCommentHandler(service)
	deleteHandler := comments.NewDeleteCommentHandler(service)

	r.Get("/posts/{postID}", getHandler.HandleGet)
	r.Post("/posts/{postID}/comments", createHandler.HandleCreate)
	r.Put("/posts/{postID}/comments/{commentID}", updateHandler.HandleUpdate)
	r.Delete("/posts/{postID}/comments/{commentID}", deleteHandler.HandleDelete)
}
