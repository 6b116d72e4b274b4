// Package images serves and uploads post images.
//
// Images are owned by the blog API. This package fetches them, renders
// them for a preset, keeps recent renditions in an in-memory LRU cache and
// forwards uploads from the post forms:
//   - Service: orchestrates cache, source and processor
//   - Cache: in-memory LRU of rendered images
//   - Processor: resizes according to a Preset
package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"Scribe/internal/blogapi"
)

// originalPreset caches the API's bytes when no preset is requested.
const originalPreset = "original"

// Source is the part of the blog API that stores images.
type Source interface {
	GetImage(ctx context.Context, id int64) (*blogapi.Image, error)
	UploadImage(ctx context.Context, id int64, upload blogapi.ImageUpload) error
}

// Upload is an image file submitted through a post form.
// The content type is detected from the data, not taken from the browser.
type Upload struct {
	Body     io.Reader
	Filename string
}

// Service serves rendered post images and forwards uploads.
type Service struct {
	source    Source
	cache     Cache
	processor Processor
	logger    *slog.Logger
	config    Config
}

// NewService creates a Service with the provided dependencies.
// Returns an error if any required dependency is nil or config is invalid.
func NewService(source Source, cache Cache, processor Processor, config Config, logger *slog.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source", ErrNilDependency)
	}
	if cache == nil {
		return nil, fmt.Errorf("%w: cache", ErrNilDependency)
	}
	if processor == nil {
		return nil, fmt.Errorf("%w: processor", ErrNilDependency)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:    source,
		cache:     cache,
		processor: processor,
		config:    config,
		logger:    logger,
	}, nil
}

// Get returns the image of a post rendered for presetName. An empty preset
// returns the image as stored by the API.
//
// Any failure to obtain the image maps to ErrImageNotFound so pages can hide
// the image element. Images the processor cannot decode are served as stored.
func (s *Service) Get(ctx context.Context, presetName string, postID int64) (*Image, error) {
	var preset Preset
	cacheName := originalPreset
	if presetName != "" {
		p, err := GetPreset(presetName)
		if err != nil {
			return nil, err
		}
		preset = p
		cacheName = p.Name
	}

	if img, ok := s.cache.Get(cacheName, postID); ok {
		s.logger.Debug("[IMAGES] cache hit",
			"preset", cacheName,
			"post_id", postID)
		return img, nil
	}

	raw, err := s.source.GetImage(ctx, postID)
	if err != nil {
		if !errors.Is(err, blogapi.ErrNotFound) && !errors.Is(err, context.Canceled) {
			s.logger.Warn("[IMAGES] failed to fetch image",
				"post_id", postID,
				"error", err)
		}
		return nil, fmt.Errorf("%w: post %d: %w", ErrImageNotFound, postID, err)
	}

	img := &Image{ContentType: raw.ContentType, Data: raw.Data}
	if presetName != "" && s.config.ResizeEnabled {
		processed, err := s.processor.Process(raw.Data, preset)
		switch {
		case err == nil:
			img = &Image{ContentType: "image/jpeg", Data: processed}
		case errors.Is(err, ErrUnsupportedFormat):
			s.logger.Debug("[IMAGES] serving unsupported format unchanged",
				"post_id", postID,
				"content_type", raw.ContentType)
		default:
			s.logger.Warn("[IMAGES] processing failed, serving original",
				"post_id", postID,
				"preset", preset.Name,
				"error", err)
		}
	}

	s.cache.Set(cacheName, postID, img)
	return img, nil
}

// Upload validates an image from a post form and stores it as the post's
// image. Cached renditions of the old image are dropped on success.
func (s *Service) Upload(ctx context.Context, postID int64, upload Upload) error {
	if upload.Body == nil {
		return fmt.Errorf("%w: empty upload", ErrUnsupportedFormat)
	}

	limit := s.config.MaxUploadBytes()
	data, err := io.ReadAll(io.LimitReader(upload.Body, limit+1))
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return fmt.Errorf("%w: limit %d MB", ErrUploadTooLarge, s.config.MaxUploadMB)
	}

	contentType, err := s.processor.Detect(data)
	if err != nil {
		return err
	}

	err = s.source.UploadImage(ctx, postID, blogapi.ImageUpload{
		Body:        bytes.NewReader(data),
		Filename:    upload.Filename,
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image: %w", err)
	}

	s.cache.Invalidate(postID)
	s.logger.Info("[IMAGES] image uploaded",
		"post_id", postID,
		"content_type", contentType,
		"size_bytes", len(data))
	return nil
}

// Invalidate drops cached renditions of a post, e.g. after it was deleted.
func (s *Service) Invalidate(postID int64) {
	s.cache.Invalidate(postID)
}
