package main

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/aquarium/anim"
	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/controls"
	"github.com/pthm-cable/aquarium/renderer"
	"github.com/pthm-cable/aquarium/scene"
	"github.com/pthm-cable/aquarium/telemetry"
)

// loadScene decodes path, or generates a scene from settings when path is
// empty. The report is nil for decoded scenes.
func loadScene(settings scene.Settings, path string) (*scene.Scene, *scene.Report, error) {
	if path == "" {
		sc, rep := scene.GenerateWithReport(settings)
		return sc, rep, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening scene: %w", err)
	}
	defer f.Close()
	sc, err := scene.Decode(f)
	if err != nil {
		return nil, nil, err
	}
	return sc, nil, nil
}

// newCache builds the glyph cache described by the glyphs section.
func newCache(cfg *config.Config) (*renderer.GlyphCache, error) {
	face, err := renderer.LoadFace(cfg.Glyphs.FontPath)
	if err != nil {
		return nil, err
	}
	g := cfg.Glyphs
	resolver := renderer.NewResolver(g.CDNBase, g.Dir, g.Offline, g.FetchTimeout)
	return renderer.NewGlyphCache(resolver, face, slog.Default()), nil
}

// prepare renders the cached layers of sc.
func prepare(ctx context.Context, cfg *config.Config, settings scene.Settings, sc *scene.Scene, cache *renderer.GlyphCache, perf *telemetry.PerfCollector) (*renderer.PreparedScene, error) {
	p, err := renderer.Prepare(ctx, sc, renderer.Options{
		Mode:          settings.RenderMode,
		Scale:         cfg.Render.Scale,
		Frame:         settings.Frame,
		SpritePadding: cfg.Render.SpritePadding,
		Concurrency:   cfg.Glyphs.Concurrency,
		Perf:          perf,
	}, cache)
	if err != nil {
		return nil, err
	}
	slog.Info("prepared",
		"seed", settings.Seed,
		"width", p.Width,
		"height", p.Height,
		"sprites", len(p.Sprites),
		"cache", cache.Stats(),
	)
	return p, nil
}

func runGenerate(settings scene.Settings, out string) error {
	w, closeFn, err := createOutput(out)
	if err != nil {
		return err
	}
	sc := scene.Generate(settings)
	if err := scene.Encode(w, sc); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func runRender(ctx context.Context, cfg *config.Config, settings scene.Settings, sceneFile, out string, t float64) error {
	sc, _, err := loadScene(settings, sceneFile)
	if err != nil {
		return err
	}
	cache, err := newCache(cfg)
	if err != nil {
		return err
	}
	p, err := prepare(ctx, cfg, settings, sc, cache, nil)
	if err != nil {
		return err
	}
	img, err := p.Frame(t)
	if err != nil {
		return err
	}

	if out == "" {
		out = defaultName(settings.Seed, ".png")
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding png: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("rendered", "path", out, "time", t)
	return nil
}

func runAnimate(ctx context.Context, cfg *config.Config, settings scene.Settings, sceneFile, out string) error {
	sc, _, err := loadScene(settings, sceneFile)
	if err != nil {
		return err
	}
	cache, err := newCache(cfg)
	if err != nil {
		return err
	}
	p, err := prepare(ctx, cfg, settings, sc, cache, nil)
	if err != nil {
		return err
	}

	sched := anim.NewFixedStepScheduler(float64(cfg.Render.FPS))
	frames := max(1, int(math.Ceil(cfg.Render.Duration*sched.FPS())))
	delay := max(2, int(math.Round(100/sched.FPS()))) // hundredths of a second

	buf := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	movie := &gif.GIF{}
	loop := anim.NewLoop(sched, func(t float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.RenderFrame(buf, t); err != nil {
			return err
		}
		frame := image.NewPaletted(buf.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, frame.Bounds(), buf, image.Point{})
		movie.Image = append(movie.Image, frame)
		movie.Delay = append(movie.Delay, delay)
		return nil
	}, slog.Default())

	loop.Start()
	sched.Run(frames)
	loop.Stop()
	if err := loop.Err(); err != nil {
		return err
	}

	if out == "" {
		out = defaultName(settings.Seed, ".gif")
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	if err := gif.EncodeAll(f, movie); err != nil {
		f.Close()
		return fmt.Errorf("encoding gif: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	slog.Info("animated", "path", out, "frames", len(movie.Image), "fps", sched.FPS())
	return nil
}

type statsOptions struct {
	outputDir string
	count     int
	prepare   bool
}

func runStats(ctx context.Context, cfg *config.Config, settings scene.Settings, opts statsOptions) error {
	om, err := telemetry.NewOutputManager(opts.outputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		return err
	}

	var perf *telemetry.PerfCollector
	var cache *renderer.GlyphCache
	if opts.prepare {
		perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
		if cache, err = newCache(cfg); err != nil {
			return err
		}
	}

	var rows []telemetry.SceneStats
	for _, s := range statsSettings(settings, opts.count) {
		sc, rep := scene.GenerateWithReport(s)
		st := telemetry.ComputeSceneStats(s, sc, rep)
		rows = append(rows, st)

		if err := om.WriteScene(st); err != nil {
			return err
		}
		if err := om.WritePlacements(telemetry.PlacementRows(s.Seed, sc)); err != nil {
			return err
		}
		if err := om.WriteSceneJSON(sc); err != nil {
			return err
		}

		if perf != nil {
			if _, err := prepare(ctx, cfg, s, sc, cache, perf); err != nil {
				return err
			}
			if err := om.WritePerf(perf.Stats(), s.Seed); err != nil {
				return err
			}
		}
	}

	printSceneStats(os.Stdout, rows)
	if perf != nil {
		printPerfStats(os.Stdout, perf.Stats())
	}
	if om != nil {
		slog.Info("wrote output", "dir", om.Dir())
	}
	return om.Close()
}

// statsSettings expands settings into count variants. A single scene keeps
// the seed; more are seeded <seed>-0, <seed>-1, ...
func statsSettings(settings scene.Settings, count int) []scene.Settings {
	if count <= 1 {
		return []scene.Settings{settings}
	}
	out := make([]scene.Settings, count)
	for i := range out {
		s := settings
		s.Seed = fmt.Sprintf("%s-%d", settings.Seed, i)
		out[i] = s
	}
	return out
}

func runSeed(w io.Writer) error {
	seed, err := controls.RandomSeed()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, seed)
	return err
}

// defaultName builds aquarium-<seed><ext> with path separators replaced.
func defaultName(seed, ext string) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, seed)
	return "aquarium-" + safe + ext
}
