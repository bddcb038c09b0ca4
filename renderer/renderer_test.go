package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/scene"
)

// solidResolver returns a filled square per glyph and counts calls.
type solidResolver struct {
	calls atomic.Int64
	fail  map[string]bool
	delay time.Duration
}

func (r *solidResolver) Resolve(ctx context.Context, glyph string) (image.Image, error) {
	r.calls.Add(1)
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.fail[glyph] {
		return nil, fmt.Errorf("no asset for %q", glyph)
	}
	return solid(16, nativeColor(glyph)), nil
}

func solid(side int, c color.NRGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testScene() *scene.Scene {
	return scene.Generate(scene.Settings{Seed: "render", Width: 240, Height: 160, Density: 3, Chaos: 30})
}

func TestCodepoints(t *testing.T) {
	tests := []struct {
		glyph string
		want  string
	}{
		{"🐟", "1f41f"},
		{"👁️", "1f441"},
		{"⚠️", "26a0"},
		{"❤️‍🔥", "2764-fe0f-200d-1f525"},
		{"🧑‍🚀", "1f9d1-200d-1f680"},
	}
	for _, tt := range tests {
		if got := Codepoints(tt.glyph); got != tt.want {
			t.Errorf("Codepoints(%q) = %q, want %q", tt.glyph, got, tt.want)
		}
	}
}

func TestCDNResolver(t *testing.T) {
	var body bytes.Buffer
	if err := png.Encode(&body, solid(8, color.NRGBA{R: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/1f41f.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body.Bytes())
	}))
	defer srv.Close()

	r := NewCDNResolver(srv.URL+"/assets/", time.Second)
	img, err := r.Resolve(context.Background(), "🐟")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("bounds = %v", b)
	}

	if _, err := r.Resolve(context.Background(), "🦈"); err == nil {
		t.Error("expected error for missing asset")
	}
}

func TestDirResolver(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "1f420.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, solid(4, color.NRGBA{G: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r := DirResolver{Dir: dir}
	if _, err := r.Resolve(context.Background(), "🐠"); err != nil {
		t.Errorf("Resolve(🐠): %v", err)
	}
	if _, err := r.Resolve(context.Background(), "🐡"); err == nil {
		t.Error("expected error for missing file")
	}

	chain := Chain{r, &solidResolver{}}
	if _, err := chain.Resolve(context.Background(), "🐡"); err != nil {
		t.Errorf("chain should fall through to the second resolver: %v", err)
	}
}

func TestNewResolver(t *testing.T) {
	tests := []struct {
		name    string
		dir     string
		offline bool
		want    string
	}{
		{"offline without dir", "", true, "<nil>"},
		{"offline with dir", "glyphs", true, "renderer.DirResolver"},
		{"cdn only", "", false, "*renderer.CDNResolver"},
		{"dir then cdn", "glyphs", false, "renderer.Chain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver("", tt.dir, tt.offline, time.Second)
			if got := fmt.Sprintf("%T", r); got != tt.want {
				t.Errorf("NewResolver type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGlyphCacheFetchesOnce(t *testing.T) {
	res := &solidResolver{delay: 20 * time.Millisecond}
	cache := NewGlyphCache(res, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Image(context.Background(), "🐟"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if n := res.calls.Load(); n != 1 {
		t.Errorf("resolver called %d times, want 1", n)
	}
	if _, err := cache.Image(context.Background(), "🐟"); err != nil {
		t.Fatal(err)
	}
	st := cache.Stats()
	if st.Misses != 1 || st.Hits < 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestGlyphCacheKeepsFailures(t *testing.T) {
	res := &solidResolver{fail: map[string]bool{"🦈": true}}
	cache := NewGlyphCache(res, nil, nil)
	for i := 0; i < 3; i++ {
		if _, err := cache.Image(context.Background(), "🦈"); err == nil {
			t.Fatal("expected failure")
		}
	}
	if n := res.calls.Load(); n != 1 {
		t.Errorf("resolver called %d times, want 1", n)
	}
	if st := cache.Stats(); st.Failures != 1 {
		t.Errorf("failures = %d, want 1", st.Failures)
	}
}

func TestPreloadIsolatesFailures(t *testing.T) {
	res := &solidResolver{fail: map[string]bool{"🦈": true}}
	cache := NewGlyphCache(res, nil, nil)

	err := cache.Preload(context.Background(), []string{"🐟", "🦈", "🐟", "🐠"}, 2)
	if err != nil {
		t.Fatalf("Preload: %v", err)
	}
	if n := res.calls.Load(); n != 3 {
		t.Errorf("resolver called %d times, want 3", n)
	}

	good := cache.Lookup("🐟", true)
	if good.Bounds().Dx() != 16 {
		t.Errorf("🐟 should use the resolved image, got %v", good.Bounds())
	}
	bad := cache.Lookup("🦈", true)
	if bad == nil || bad.Bounds().Dx() == 16 {
		t.Errorf("🦈 should fall back to the font rendering")
	}
}

func TestNoResolverFallsBack(t *testing.T) {
	cache := NewGlyphCache(nil, nil, nil)
	if _, err := cache.Image(context.Background(), "🐟"); !errors.Is(err, ErrNoResolver) {
		t.Errorf("err = %v, want ErrNoResolver", err)
	}
	if cache.Lookup("🐟", true) == nil {
		t.Error("no fallback image")
	}
}

func TestRenderNative(t *testing.T) {
	tests := []struct {
		name  string
		glyph string
	}{
		{"ascii", "A"},
		{"emoji disc", "🐟"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := renderNative(DefaultFace(), tt.glyph)
			b := img.Bounds()
			if b.Dx() != b.Dy() {
				t.Errorf("canvas %v is not square", b)
			}
			if opaquePixels(img) == 0 {
				t.Error("nothing drawn")
			}
		})
	}
}

func opaquePixels(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				n++
			}
		}
	}
	return n
}

func TestPrepare(t *testing.T) {
	sc := testScene()
	cache := NewGlyphCache(&solidResolver{}, nil, nil)

	tests := []struct {
		name  string
		opts  Options
		wantW int
		wantH int
	}{
		{"scale 1", Options{}, 240, 160},
		{"scale 2 framed", Options{Scale: 2, Frame: true}, 480, 320},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Prepare(context.Background(), sc, tt.opts, cache)
			if err != nil {
				t.Fatalf("Prepare: %v", err)
			}
			if p.Width != tt.wantW || p.Height != tt.wantH {
				t.Errorf("surface = %dx%d, want %dx%d", p.Width, p.Height, tt.wantW, tt.wantH)
			}
			for name, layer := range map[string]*image.RGBA{"background": p.Background, "under": p.Under, "over": p.Over} {
				if layer.Bounds() != image.Rect(0, 0, tt.wantW, tt.wantH) {
					t.Errorf("%s bounds = %v", name, layer.Bounds())
				}
			}
			if (p.Overlay != nil) != tt.opts.Frame {
				t.Errorf("overlay present = %v, frame = %v", p.Overlay != nil, tt.opts.Frame)
			}
			if len(p.Sprites) != len(sc.Creatures) {
				t.Fatalf("sprites = %d, creatures = %d", len(p.Sprites), len(sc.Creatures))
			}
			for i := 1; i < len(p.Sprites); i++ {
				if p.Sprites[i].Layer < p.Sprites[i-1].Layer {
					t.Fatal("sprites not sorted by layer")
				}
			}
			for _, s := range p.Sprites {
				c := sc.Creatures[s.Creature]
				wantW := int(math.Ceil((c.Bounds.Width() + 2*DefaultSpritePadding) * p.Options.Scale))
				if s.Image.Bounds().Dx() != wantW {
					t.Errorf("%s sprite width = %d, want %d", c.ID, s.Image.Bounds().Dx(), wantW)
				}
				if s.Static != c.Static {
					t.Errorf("%s static mismatch", c.ID)
				}
			}
		})
	}
}

func TestPrepareIsIdempotent(t *testing.T) {
	sc := testScene()
	res := &solidResolver{fail: map[string]bool{"🐡": true}}
	a, err := Prepare(context.Background(), sc, Options{Frame: true}, NewGlyphCache(res, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Prepare(context.Background(), sc, Options{Frame: true}, NewGlyphCache(res, nil, nil))
	if err != nil {
		t.Fatal(err)
	}

	layers := []struct {
		name string
		x, y *image.RGBA
	}{
		{"background", a.Background, b.Background},
		{"under", a.Under, b.Under},
		{"over", a.Over, b.Over},
		{"overlay", a.Overlay, b.Overlay},
	}
	for _, l := range layers {
		if !bytes.Equal(l.x.Pix, l.y.Pix) {
			t.Errorf("%s layer differs between preparations", l.name)
		}
	}
	for i := range a.Sprites {
		if !bytes.Equal(a.Sprites[i].Image.Pix, b.Sprites[i].Image.Pix) {
			t.Errorf("sprite %d differs between preparations", i)
		}
	}
}

func TestNativeModeSkipsResolver(t *testing.T) {
	res := &solidResolver{}
	_, err := Prepare(context.Background(), testScene(), Options{Mode: scene.RenderNativeFont}, NewGlyphCache(res, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	if n := res.calls.Load(); n != 0 {
		t.Errorf("resolver called %d times in native mode", n)
	}
}

func TestPrepareNoSurface(t *testing.T) {
	tests := []struct {
		name  string
		sc    *scene.Scene
		scale float64
	}{
		{"nil scene", nil, 1},
		{"zero width", &scene.Scene{Width: 0, Height: 100}, 1},
		{"negative scale", testScene(), -1},
		{"too large", testScene(), 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(context.Background(), tt.sc, Options{Scale: tt.scale}, nil)
			if !errors.Is(err, ErrNoSurface) {
				t.Errorf("err = %v, want ErrNoSurface", err)
			}
		})
	}
}

func TestPrepareCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Prepare(ctx, testScene(), Options{}, NewGlyphCache(&solidResolver{}, nil, nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRenderFrame(t *testing.T) {
	p, err := Prepare(context.Background(), testScene(), Options{}, NewGlyphCache(&solidResolver{}, nil, nil))
	if err != nil {
		t.Fatal(err)
	}

	if err := p.RenderFrame(nil, 0); !errors.Is(err, ErrSurfaceSize) {
		t.Errorf("nil dst: err = %v", err)
	}
	if err := p.RenderFrame(image.NewRGBA(image.Rect(0, 0, 10, 10)), 0); !errors.Is(err, ErrSurfaceSize) {
		t.Errorf("small dst: err = %v", err)
	}

	a, err := p.Frame(1.5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := p.Frame(1.5)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("same time produced different frames")
	}

	c, err := p.Frame(4)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(a.Pix, c.Pix) {
		t.Error("animation did not move any sprite")
	}
}

func TestSpriteTransform(t *testing.T) {
	m := MotionFor(12345)
	moving := Sprite{Motion: m}
	static := Sprite{Motion: m, Static: true}

	for _, ts := range []float64{0, 0.7, 3.2} {
		dx, dy, rot := moving.Transform(ts)
		wdx, wdy, wrot := m.Offset(ts)
		if dx != wdx || dy != wdy || rot != wrot {
			t.Errorf("t=%v: transform (%v,%v,%v), want (%v,%v,%v)", ts, dx, dy, rot, wdx, wdy, wrot)
		}
		if dx, dy, rot := static.Transform(ts); dx != 0 || dy != 0 || rot != 0 {
			t.Errorf("static sprite moved at t=%v", ts)
		}
	}
}

func TestMotionForRanges(t *testing.T) {
	for seed := uint32(0); seed < 500; seed++ {
		m := MotionFor(seed * 7919)
		checks := []struct {
			name   string
			v      float64
			lo, hi float64
		}{
			{"speed", m.Speed, 0.6, 1.4},
			{"bob", m.Bob, 2, 8},
			{"sway", m.Sway, 3, 12},
			{"rot", m.Rot, 0.03, 0.12},
			{"phase", m.Phase, 0, 2 * math.Pi},
		}
		for _, c := range checks {
			if c.v < c.lo || c.v >= c.hi {
				t.Fatalf("seed %d: %s = %v outside [%v, %v)", seed, c.name, c.v, c.lo, c.hi)
			}
		}
	}
	if MotionFor(1) != MotionFor(1) {
		t.Error("MotionFor is not deterministic")
	}
}

func TestStaticSpriteStaysPut(t *testing.T) {
	sc := testScene()
	p, err := Prepare(context.Background(), sc, Options{}, NewGlyphCache(&solidResolver{}, nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range p.Sprites {
		if s.Static && s.Motion != (components.Motion{}) {
			t.Errorf("static sprite has motion %+v", s.Motion)
		}
	}
}
