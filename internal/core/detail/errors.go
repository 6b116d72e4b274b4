package detail

import "errors"

var (
	// ErrEmptyComment indicates comment text that is empty or whitespace only.
	// No request is sent for such a comment.
	ErrEmptyComment = errors.New("comment text is empty")

	// ErrNilAPI is returned by NewService when no API is given
	ErrNilAPI = errors.New("detail: API is required")

	// ErrInvalidPostID indicates a post id that is not positive
	ErrInvalidPostID = errors.New("invalid post id")
)
