package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Register PNG decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Processor resizes post images.
type Processor interface {
	// Process renders data for the preset. Output is always JPEG.
	Process(data []byte, preset Preset) ([]byte, error)

	// Detect returns the MIME type of data, or ErrUnsupportedFormat when it
	// is not an image the processor can decode.
	Detect(data []byte) (string, error)
}

// ImageProcessor implements Processor with the imaging library.
type ImageProcessor struct{}

// NewProcessor creates a new ImageProcessor.
func NewProcessor() Processor {
	return &ImageProcessor{}
}

var formatMIME = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// Detect reads only the image header.
func (p *ImageProcessor) Detect(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image data", ErrUnsupportedFormat)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	mime, ok := formatMIME[format]
	if !ok {
		return "", fmt.Errorf("%w: format %s", ErrUnsupportedFormat, format)
	}
	return mime, nil
}

// Process decodes data, fits it to the preset and encodes it as JPEG.
func (p *ImageProcessor) Process(data []byte, preset Preset) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrUnsupportedFormat)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrProcessingFailed, err)
	}
	if _, ok := formatMIME[format]; !ok {
		return nil, fmt.Errorf("%w: format %s", ErrUnsupportedFormat, format)
	}

	var out image.Image
	switch preset.Fit {
	case FitCover:
		out = imaging.Fill(img, preset.Width, preset.Height, imaging.Center, imaging.Lanczos)
	case FitContain:
		out = fitWidth(img, preset.Width, preset.Height)
	default:
		return nil, fmt.Errorf("%w: unknown fit mode %q", ErrProcessingFailed, preset.Fit)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: preset.Quality}); err != nil {
		return nil, fmt.Errorf("%w: failed to encode JPEG: %v", ErrProcessingFailed, err)
	}
	return buf.Bytes(), nil
}

// fitWidth scales img down to maxWidth keeping its aspect ratio. Images that
// are already narrow enough are never upscaled. A maxHeight of 0 means no
// height limit.
func fitWidth(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth && (maxHeight == 0 || b.Dy() <= maxHeight) {
		return img
	}
	if maxHeight == 0 {
		return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
