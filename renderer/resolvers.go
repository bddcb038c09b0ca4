package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultCDNBase serves Twemoji 72x72 PNG assets.
const DefaultCDNBase = "https://cdn.jsdelivr.net/gh/twitter/twemoji@14.0.2/assets/72x72/"

// GlyphResolver loads the image for a glyph. Implementations may block.
type GlyphResolver interface {
	Resolve(ctx context.Context, glyph string) (image.Image, error)
}

// Codepoints returns the asset name of a glyph: lowercase hex code points
// joined by dashes. Variation selector 16 is dropped unless the sequence
// contains a zero-width joiner, matching Twemoji's file naming.
func Codepoints(glyph string) string {
	keepVS := strings.ContainsRune(glyph, '\u200d')
	parts := make([]string, 0, 4)
	for _, r := range glyph {
		if r == '\ufe0f' && !keepVS {
			continue
		}
		parts = append(parts, strconv.FormatInt(int64(r), 16))
	}
	return strings.Join(parts, "-")
}

// CDNResolver fetches glyph PNGs over HTTP.
type CDNResolver struct {
	BaseURL string
	Client  *http.Client
}

// NewCDNResolver creates a resolver for baseURL. An empty base uses
// DefaultCDNBase; timeout bounds each request.
func NewCDNResolver(baseURL string, timeout time.Duration) *CDNResolver {
	if baseURL == "" {
		baseURL = DefaultCDNBase
	}
	return &CDNResolver{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// URL returns the asset URL for glyph.
func (r *CDNResolver) URL(glyph string) string {
	return strings.TrimSuffix(r.BaseURL, "/") + "/" + Codepoints(glyph) + ".png"
}

// Resolve downloads and decodes the glyph's PNG.
func (r *CDNResolver) Resolve(ctx context.Context, glyph string) (image.Image, error) {
	url := r.URL(glyph)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", url, err)
	}
	return img, nil
}

// DirResolver reads glyph PNGs named by Codepoints from a local directory.
type DirResolver struct {
	Dir string
}

// Resolve opens and decodes the glyph's PNG file.
func (r DirResolver) Resolve(_ context.Context, glyph string) (image.Image, error) {
	path := filepath.Join(r.Dir, Codepoints(glyph)+".png")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glyph: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Chain tries each resolver in order and returns the first success.
type Chain []GlyphResolver

// Resolve returns the first image any resolver produces, or all their errors.
func (c Chain) Resolve(ctx context.Context, glyph string) (image.Image, error) {
	var errs []error
	for _, r := range c {
		img, err := r.Resolve(ctx, glyph)
		if err == nil {
			return img, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNoResolver
	}
	return nil, errors.Join(errs...)
}

// NewResolver builds the usual resolver chain: the local directory when dir
// is set, then the CDN unless offline. It returns nil when neither applies,
// which leaves a cache on the font fallback.
func NewResolver(cdnBase, dir string, offline bool, timeout time.Duration) GlyphResolver {
	var chain Chain
	if dir != "" {
		chain = append(chain, DirResolver{Dir: dir})
	}
	if !offline {
		chain = append(chain, NewCDNResolver(cdnBase, timeout))
	}
	switch len(chain) {
	case 0:
		return nil
	case 1:
		return chain[0]
	}
	return chain
}
