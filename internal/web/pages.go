package web

import (
	"Scribe/internal/core/likes"
	"Scribe/internal/core/posts"
)

// Page holds what the shared layout shows on every page.
type Page struct {
	Title   string
	Error   string
	Flashes []string
}

// LikeControl renders one like button.
type LikeControl struct {
	// Return is where the toggle redirects back to.
	Return string
	Like   likes.LikeState
	PostID int64
}

// PostCard is one entry of the listing.
type PostCard struct {
	Excerpt     string
	LikeControl LikeControl
	Post        posts.Post
}

// HomePageData holds data for the listing page.
type HomePageData struct {
	Page
	PrevURL    string
	NextURL    string
	Cards      []PostCard
	Query      posts.Query
	TotalPages int
	HasPrev    bool
	HasNext    bool
	Failed     bool
}

// PostPageData holds data for the post detail page.
type PostPageData struct {
	Page
	Comments            []posts.Comment
	LikeControl         LikeControl
	Post                posts.Post
	CommentsUnavailable bool
}

// PostFormValues are the raw inputs of the create and edit forms.
type PostFormValues struct {
	Title string
	Text  string
	Tags  string
}

// PostFormData holds data for the create and edit forms.
type PostFormData struct {
	Page
	Action  string
	Form    PostFormValues
	PostID  int64
	Editing bool
}

// ConfirmDeleteData holds data for the delete confirmation page.
type ConfirmDeleteData struct {
	Page
	Post posts.Post
}

// CommentFormData holds data for the comment edit form.
type CommentFormData struct {
	Page
	Comment posts.Comment
}

// ErrorPageData holds data for error pages.
type ErrorPageData struct {
	Page
	Message string
}
