package images

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Image is an image ready to be written to a response.
type Image struct {
	ContentType string
	Data        []byte
}

// Cache stores rendered images per preset and post.
type Cache interface {
	Get(preset string, postID int64) (*Image, bool)
	Set(preset string, postID int64, img *Image)
	// Invalidate drops every rendition of a post's image.
	Invalidate(postID int64)
	Len() int
}

type cacheKey struct {
	preset string
	postID int64
}

// MemoryCache is an in-memory LRU cache of rendered images.
type MemoryCache struct {
	entries *lru.Cache[cacheKey, *Image]
}

// NewMemoryCache creates a cache holding up to maxEntries renditions.
func NewMemoryCache(maxEntries int) (*MemoryCache, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCacheEntries, maxEntries)
	}
	entries, err := lru.New[cacheKey, *Image](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	return &MemoryCache{entries: entries}, nil
}

// Get returns a cached rendition and marks it recently used.
func (c *MemoryCache) Get(preset string, postID int64) (*Image, bool) {
	return c.entries.Get(cacheKey{preset: preset, postID: postID})
}

// Set stores a rendition, evicting the least recently used one when full.
func (c *MemoryCache) Set(preset string, postID int64, img *Image) {
	c.entries.Add(cacheKey{preset: preset, postID: postID}, img)
}

// Invalidate removes all renditions of postID.
func (c *MemoryCache) Invalidate(postID int64) {
	for _, p := range ListPresets() {
		c.entries.Remove(cacheKey{preset: p.Name, postID: postID})
	}
	c.entries.Remove(cacheKey{preset: originalPreset, postID: postID})
}

// Len returns the number of cached renditions.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}
