package posts

import "errors"

var (
	// ErrTitleRequired indicates a draft has an empty or whitespace-only title
	ErrTitleRequired = errors.New("title is required")

	// ErrTextRequired indicates a draft has an empty or whitespace-only text
	ErrTextRequired = errors.New("text is required")

	// ErrInvalidPage indicates a page number below 1
	ErrInvalidPage = errors.New("page number must be at least 1")

	// ErrNilLister is returned by NewListings when no lister is given
	ErrNilLister = errors.New("posts lister is required")

	// ErrMissingVisitor indicates a listing was requested without a visitor id
	ErrMissingVisitor = errors.New("visitor id is required")
)

// IsValidationError returns true if the error comes from Draft validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) || errors.Is(err, ErrTextRequired)
}
