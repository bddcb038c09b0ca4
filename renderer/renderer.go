// Package renderer turns scenes into pixels.
//
// Rendering has two phases. Prepare resolves glyphs and paints the cached
// layers and creature sprites once; RenderFrame then composites them for any
// time value without further allocation or I/O.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/scene"
	"github.com/pthm-cable/aquarium/telemetry"
)

var (
	// ErrNoSurface is returned when no drawable surface can be created for
	// the requested scene and scale.
	ErrNoSurface = errors.New("no drawable surface")
	// ErrSurfaceSize is returned when a destination does not match the
	// prepared surface.
	ErrSurfaceSize = errors.New("destination size mismatch")
)

// MaxSurfaceSide bounds each side of the output surface in pixels.
const MaxSurfaceSide = 16384

// DefaultSpritePadding surrounds each creature sprite, in scene units, so
// rotated glyphs are not clipped.
const DefaultSpritePadding = 24

// overLayer splits static placements: lower layers draw beneath creatures.
const overLayer = 5

// Options configures preparation.
type Options struct {
	Mode          scene.RenderMode
	Scale         float64 // pixels per scene unit, 1 when zero
	Frame         bool
	SpritePadding float64 // scene units, DefaultSpritePadding when zero
	Concurrency   int     // concurrent glyph fetches, DefaultPreloadConcurrency when zero

	Perf   *telemetry.PerfCollector // optional phase timing
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.SpritePadding == 0 {
		o.SpritePadding = DefaultSpritePadding
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultPreloadConcurrency
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Sprite is a creature painted onto its own canvas.
type Sprite struct {
	Image    *image.RGBA
	Origin   components.Point // scene position of the canvas's top-left corner
	Center   components.Point // rotation pivot in scene units
	Layer    int
	Static   bool
	Motion   components.Motion
	Creature int // index into Scene.Creatures
}

// PreparedScene holds the cached layers and sprites of one scene.
// It is read-only after Prepare; without a Perf collector it may be shared
// between goroutines.
type PreparedScene struct {
	Scene   *scene.Scene
	Options Options

	Width, Height int // surface size in pixels

	Background *image.RGBA
	Under      *image.RGBA // static placements below layer 5
	Over       *image.RGBA // static placements at layer 5 and above
	Overlay    *image.RGBA // frame decoration, nil when disabled
	Sprites    []Sprite    // ascending by layer, stable
}

// SurfaceSize returns the pixel size of sc at scale, or ErrNoSurface.
func SurfaceSize(sc *scene.Scene, scale float64) (int, int, error) {
	if sc == nil {
		return 0, 0, fmt.Errorf("%w: nil scene", ErrNoSurface)
	}
	w := int(math.Round(float64(sc.Width) * scale))
	h := int(math.Round(float64(sc.Height) * scale))
	if w <= 0 || h <= 0 || w > MaxSurfaceSide || h > MaxSurfaceSide {
		return 0, 0, fmt.Errorf("%w: %dx%d at scale %g", ErrNoSurface, sc.Width, sc.Height, scale)
	}
	return w, h, nil
}

// Prepare resolves every glyph in sc through cache and paints the layers and
// sprites. Glyph failures degrade to the font fallback and are not returned;
// the only errors are ErrNoSurface and context cancellation.
func Prepare(ctx context.Context, sc *scene.Scene, opts Options, cache *GlyphCache) (*PreparedScene, error) {
	opts = opts.withDefaults()
	w, h, err := SurfaceSize(sc, opts.Scale)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = NewGlyphCache(nil, nil, opts.Logger)
	}

	perf := opts.Perf
	if perf != nil {
		perf.StartPass()
		defer perf.EndPass()
	}
	phase := func(name string) {
		if perf != nil {
			perf.StartPhase(name)
		}
	}

	preferImage := opts.Mode != scene.RenderNativeFont
	phase(telemetry.PhasePreload)
	if preferImage {
		if err := cache.Preload(ctx, glyphsOf(sc), opts.Concurrency); err != nil {
			return nil, fmt.Errorf("preloading glyphs: %w", err)
		}
	}
	drawer := cache.Drawer(preferImage)

	bounds := image.Rect(0, 0, w, h)
	p := &PreparedScene{Scene: sc, Options: opts, Width: w, Height: h}

	phase(telemetry.PhaseBackground)
	p.Background = drawBackground(sc, bounds, opts.Scale)
	if opts.Frame {
		p.Overlay = drawOverlay(sc, bounds, opts.Scale)
	}

	phase(telemetry.PhaseLayers)
	var under, over []components.Placement
	for _, pl := range sc.StaticPlacements {
		if pl.Layer < overLayer {
			under = append(under, pl)
		} else {
			over = append(over, pl)
		}
	}
	p.Under = image.NewRGBA(bounds)
	drawPlacements(p.Under, drawer, under, components.Point{}, opts.Scale)
	p.Over = image.NewRGBA(bounds)
	drawPlacements(p.Over, drawer, over, components.Point{}, opts.Scale)

	phase(telemetry.PhaseSprites)
	sprites, err := prepareSprites(ctx, sc, drawer, opts)
	if err != nil {
		return nil, err
	}
	p.Sprites = sprites

	opts.Logger.Debug("scene prepared",
		"width", w,
		"height", h,
		"sprites", len(sprites),
		"cache", cache.Stats(),
	)
	return p, nil
}

// prepareSprites paints each creature onto its own canvas. Sprites are
// independent, so they are painted concurrently.
func prepareSprites(ctx context.Context, sc *scene.Scene, drawer GlyphDrawer, opts Options) ([]Sprite, error) {
	sprites := make([]Sprite, len(sc.Creatures))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range sc.Creatures {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sprites[i] = paintSprite(&sc.Creatures[i], i, drawer, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("painting sprites: %w", err)
	}

	sort.SliceStable(sprites, func(a, b int) bool {
		return sprites[a].Layer < sprites[b].Layer
	})
	return sprites, nil
}

func paintSprite(c *components.Creature, index int, drawer GlyphDrawer, opts Options) Sprite {
	pad := opts.SpritePadding
	origin := components.Point{X: c.Bounds.MinX - pad, Y: c.Bounds.MinY - pad}
	w := int(math.Ceil((c.Bounds.Width() + 2*pad) * opts.Scale))
	h := int(math.Ceil((c.Bounds.Height() + 2*pad) * opts.Scale))

	img := image.NewRGBA(image.Rect(0, 0, max(1, w), max(1, h)))
	drawPlacements(img, drawer, c.Placements, origin, opts.Scale)

	s := Sprite{
		Image:    img,
		Origin:   origin,
		Center:   c.Center,
		Layer:    c.Layer,
		Static:   c.Static,
		Creature: index,
	}
	if !c.Static {
		s.Motion = MotionFor(c.MotionSeed)
	}
	return s
}

// drawPlacements draws placements in ascending layer order, translated so
// that origin maps to the image's top-left corner.
func drawPlacements(dst *image.RGBA, drawer GlyphDrawer, placements []components.Placement, origin components.Point, scale float64) {
	sorted := append([]components.Placement(nil), placements...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Layer < sorted[j].Layer
	})
	for _, pl := range sorted {
		drawer.DrawGlyph(dst, pl.Glyph,
			(pl.X-origin.X)*scale,
			(pl.Y-origin.Y)*scale,
			pl.Scale*scale,
			pl.Rotation,
			pl.Alpha(),
		)
	}
}

// MotionFor derives idle-animation parameters from a creature's motion seed.
func MotionFor(seed uint32) components.Motion {
	r := prng.New(seed)
	return components.Motion{
		Speed: r.Range(0.6, 1.4),
		Bob:   r.Range(2, 8),
		Sway:  r.Range(3, 12),
		Rot:   r.Range(0.03, 0.12),
		Phase: r.Range(0, 2*math.Pi),
	}
}

// Transform returns the sprite's displacement and rotation at time t.
// Static sprites never move.
func (s Sprite) Transform(t float64) (dx, dy, rot float64) {
	if s.Static {
		return 0, 0, 0
	}
	return s.Motion.Offset(t)
}

// RenderFrame composites the frame at time t (seconds) into dst, which must
// match the prepared surface size.
func (p *PreparedScene) RenderFrame(dst *image.RGBA, t float64) error {
	if dst == nil {
		return fmt.Errorf("%w: nil destination", ErrSurfaceSize)
	}
	if b := dst.Bounds(); b.Dx() != p.Width || b.Dy() != p.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSurfaceSize, b.Dx(), b.Dy(), p.Width, p.Height)
	}
	if p.Options.Perf != nil {
		p.Options.Perf.RecordFrame()
	}

	b := dst.Bounds()
	draw.Draw(dst, b, p.Background, image.Point{}, draw.Src)
	draw.Draw(dst, b, p.Under, image.Point{}, draw.Over)
	for i := range p.Sprites {
		p.drawSprite(dst, &p.Sprites[i], t)
	}
	draw.Draw(dst, b, p.Over, image.Point{}, draw.Over)
	if p.Overlay != nil {
		draw.Draw(dst, b, p.Overlay, image.Point{}, draw.Over)
	}
	return nil
}

// Frame allocates a surface and renders the frame at time t into it.
func (p *PreparedScene) Frame(t float64) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	if err := p.RenderFrame(dst, t); err != nil {
		return nil, err
	}
	return dst, nil
}

func (p *PreparedScene) drawSprite(dst *image.RGBA, s *Sprite, t float64) {
	scale := p.Options.Scale
	dx, dy, rot := s.Transform(t)

	ox, oy := s.Origin.X*scale, s.Origin.Y*scale
	if rot == 0 {
		tx, ty := ox+dx*scale, oy+dy*scale
		if tx == math.Trunc(tx) && ty == math.Trunc(ty) {
			at := image.Pt(int(tx), int(ty))
			draw.Draw(dst, s.Image.Bounds().Add(at), s.Image, image.Point{}, draw.Over)
			return
		}
	}

	// rotate about the creature centre, then displace
	sin, cos := math.Sincos(rot)
	cx, cy := s.Center.X*scale, s.Center.Y*scale
	rx, ry := ox-cx, oy-cy
	m := f64.Aff3{
		cos, -sin, cos*rx - sin*ry + cx + dx*scale,
		sin, cos, sin*rx + cos*ry + cy + dy*scale,
	}
	draw.BiLinear.Transform(dst, m, s.Image, s.Image.Bounds(), draw.Over, nil)
}

// glyphsOf returns the distinct glyphs of a scene in first-use order.
func glyphsOf(sc *scene.Scene) []string {
	seen := map[string]bool{}
	var out []string
	for _, pl := range sc.AllPlacements() {
		if !seen[pl.Glyph] {
			seen[pl.Glyph] = true
			out = append(out, pl.Glyph)
		}
	}
	return out
}
