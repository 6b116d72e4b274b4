package likes

import "errors"

var (
	// ErrToggleInFlight indicates another toggle for the same visitor and post
	// has not finished yet
	ErrToggleInFlight = errors.New("like toggle already in progress")

	// ErrMissingVisitor indicates a toggle without a visitor identity
	ErrMissingVisitor = errors.New("visitor id is required")

	// ErrInvalidPostID indicates a post id that is not positive
	ErrInvalidPostID = errors.New("invalid post id")
)
