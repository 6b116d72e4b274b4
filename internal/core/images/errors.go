package images

import "errors"

var (
	// ErrInvalidPreset is returned when a preset name is not in the registry.
	ErrInvalidPreset = errors.New("invalid image preset")

	// ErrImageNotFound is returned when a post has no image or the image could
	// not be fetched. Pages hide the image element in that case.
	ErrImageNotFound = errors.New("image not found")

	// ErrUnsupportedFormat is returned when image data is not JPEG, PNG or WebP.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrUploadTooLarge is returned when an upload exceeds MaxUploadMB.
	ErrUploadTooLarge = errors.New("image upload exceeds size limit")

	// ErrProcessingFailed is returned when resizing or encoding fails.
	ErrProcessingFailed = errors.New("image processing failed")

	// ErrNilDependency is returned when a required dependency is nil.
	ErrNilDependency = errors.New("required dependency is nil")
)
