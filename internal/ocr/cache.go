package ocr

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/mmynk/billscan/internal/metrics"
)

type cacheKey struct {
	digest [blake2b.Size256]byte
	mode   Mode
	// crop is the zero rectangle for whole-image recognition.
	crop image.Rectangle
}

// Cache memoizes a Recognizer by image content, mode and crop, so
// re-submitting the same image does not run recognition again.
// Entries live as long as the Cache; there is no eviction. Each split session
// owns its own Cache, so entries are released when the session ends.
type Cache struct {
	next Recognizer

	mu      sync.Mutex
	entries map[cacheKey]string
}

var _ Recognizer = (*Cache)(nil)

// NewCache wraps next with a memoizing cache.
func NewCache(next Recognizer) *Cache {
	return &Cache{next: next, entries: make(map[cacheKey]string)}
}

// Recognize returns cleaned text for img, calling the wrapped recognizer
// only on a cache miss. Failed recognitions are not cached.
func (c *Cache) Recognize(ctx context.Context, img []byte, opts Options) (string, error) {
	if len(img) == 0 {
		return "", ErrEmptyImage
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}
	key := cacheKey{digest: blake2b.Sum256(img), mode: opts.Mode}
	if opts.Crop != nil {
		key.crop = *opts.Crop
	}

	c.mu.Lock()
	text, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		metrics.OCRCacheLookups.WithLabelValues("hit").Inc()
		return text, nil
	}
	metrics.OCRCacheLookups.WithLabelValues("miss").Inc()

	raw, err := c.next.Recognize(ctx, img, opts)
	if err != nil {
		return "", err
	}
	text = Clean(raw)

	c.mu.Lock()
	c.entries[key] = text
	c.mu.Unlock()

	slog.Debug("OCR result cached",
		"mode", int(opts.Mode),
		"cropped", opts.Crop != nil,
		"bytes", len(img),
		"chars", len(text),
	)
	return text, nil
}

// Len reports the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
