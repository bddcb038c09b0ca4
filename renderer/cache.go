package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/image/font"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrNoResolver is recorded for glyphs when the cache has no resolver.
var ErrNoResolver = errors.New("no glyph resolver configured")

var errEmptyImage = errors.New("resolver returned no image")

// DefaultPreloadConcurrency bounds concurrent glyph fetches.
const DefaultPreloadConcurrency = 8

type cacheEntry struct {
	img image.Image
	err error
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits     int64 `json:"hits"`
	Misses   int64 `json:"misses"`
	Failures int64 `json:"failures"`
	Native   int64 `json:"native"`
}

// GlyphCache holds resolved glyph images and font fallbacks for one
// rendering session. The first result per glyph, image or error, is kept
// for the cache's lifetime; concurrent requests for the same glyph share
// one fetch. It is safe for concurrent use.
type GlyphCache struct {
	resolver GlyphResolver
	logger   *slog.Logger

	mu     sync.Mutex
	images map[string]cacheEntry
	native map[string]image.Image

	faceMu sync.Mutex
	face   font.Face

	group singleflight.Group

	hits, misses, failures, natives atomic.Int64
}

// NewGlyphCache creates a session cache. resolver may be nil for
// font-only rendering; a nil face uses the built-in bitmap font.
func NewGlyphCache(resolver GlyphResolver, face font.Face, logger *slog.Logger) *GlyphCache {
	if face == nil {
		face = DefaultFace()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GlyphCache{
		resolver: resolver,
		logger:   logger,
		images:   make(map[string]cacheEntry),
		native:   make(map[string]image.Image),
		face:     face,
	}
}

// Image resolves glyph, fetching it at most once per cache.
func (c *GlyphCache) Image(ctx context.Context, glyph string) (image.Image, error) {
	if e, ok := c.cached(glyph); ok {
		c.hits.Add(1)
		return e.img, e.err
	}

	v, err, _ := c.group.Do(glyph, func() (any, error) {
		if e, ok := c.cached(glyph); ok {
			return e.img, e.err
		}
		c.misses.Add(1)

		img, err := c.resolve(ctx, glyph)
		if err != nil && ctx.Err() != nil {
			// cancelled by the caller, leave the glyph unresolved
			return nil, err
		}
		c.mu.Lock()
		c.images[glyph] = cacheEntry{img: img, err: err}
		c.mu.Unlock()

		if err != nil {
			c.failures.Add(1)
			c.logger.Warn("glyph resolution failed, using font fallback",
				"glyph", glyph,
				"err", err,
			)
		}
		return img, err
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

func (c *GlyphCache) cached(glyph string) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.images[glyph]
	return e, ok
}

func (c *GlyphCache) resolve(ctx context.Context, glyph string) (image.Image, error) {
	if c.resolver == nil {
		return nil, ErrNoResolver
	}
	img, err := c.resolver.Resolve(ctx, glyph)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", glyph, err)
	}
	if img == nil {
		return nil, errEmptyImage
	}
	return img, nil
}

// Preload resolves every distinct glyph concurrently, at most limit at a
// time. Individual failures are cached and logged, never returned; the only
// error is the context's.
func (c *GlyphCache) Preload(ctx context.Context, glyphs []string, limit int) error {
	if limit <= 0 {
		limit = DefaultPreloadConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	seen := make(map[string]struct{}, len(glyphs))
	for _, glyph := range glyphs {
		if _, ok := seen[glyph]; ok {
			continue
		}
		seen[glyph] = struct{}{}
		g.Go(func() error {
			c.Image(gctx, glyph)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Native returns the font rendering of glyph, building it on first use.
func (c *GlyphCache) Native(glyph string) image.Image {
	c.mu.Lock()
	img, ok := c.native[glyph]
	c.mu.Unlock()
	if ok {
		return img
	}

	c.faceMu.Lock()
	img = renderNative(c.face, glyph)
	c.faceMu.Unlock()
	c.natives.Add(1)

	c.mu.Lock()
	if prev, ok := c.native[glyph]; ok {
		img = prev
	} else {
		c.native[glyph] = img
	}
	c.mu.Unlock()
	return img
}

// Lookup returns the image to draw for glyph without blocking on a fetch:
// the resolved image when one is cached, else the font rendering.
func (c *GlyphCache) Lookup(glyph string, preferImage bool) image.Image {
	if preferImage {
		if e, ok := c.cached(glyph); ok && e.err == nil {
			return e.img
		}
	}
	return c.Native(glyph)
}

// Stats returns a snapshot of the cache counters.
func (c *GlyphCache) Stats() CacheStats {
	return CacheStats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Failures: c.failures.Load(),
		Native:   c.natives.Load(),
	}
}

// GlyphDrawer draws a glyph centred at (x, y) with edge length size,
// rotated by rotation radians, at the given opacity. Coordinates are in
// destination pixels.
type GlyphDrawer interface {
	DrawGlyph(dst *image.RGBA, glyph string, x, y, size, rotation, opacity float64)
}

// cacheDrawer draws from a GlyphCache, falling back to the font rendering
// for glyphs without a resolved image.
type cacheDrawer struct {
	cache       *GlyphCache
	preferImage bool
}

func (d cacheDrawer) DrawGlyph(dst *image.RGBA, glyph string, x, y, size, rotation, opacity float64) {
	blit(dst, d.cache.Lookup(glyph, d.preferImage), x, y, size, rotation, opacity)
}

// Drawer returns a GlyphDrawer backed by the cache. With preferImage set
// it draws resolved images where available.
func (c *GlyphCache) Drawer(preferImage bool) GlyphDrawer {
	return cacheDrawer{cache: c, preferImage: preferImage}
}
