// Package viewer runs the interactive aquarium window.
//
// Scenes are generated on the main thread and prepared in the background;
// the prepared layers and sprites are uploaded as textures and the sprites
// are animated as ECS entities on a display-refresh scheduler.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquarium/anim"
	"github.com/pthm-cable/aquarium/camera"
	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/controls"
	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/renderer"
	"github.com/pthm-cable/aquarium/scene"
	"github.com/pthm-cable/aquarium/stage"
	"github.com/pthm-cable/aquarium/telemetry"
)

// prepareTimeout bounds one background preparation, glyph fetches included.
const prepareTimeout = 60 * time.Second

// Options configures a viewer.
type Options struct {
	OutputDir string // CSV/JSON output, empty disables
	Logger    *slog.Logger
}

type prepareRequest struct {
	gen      int
	settings scene.Settings
	scene    *scene.Scene
}

type prepareResult struct {
	gen      int
	settings scene.Settings
	prepared *renderer.PreparedScene
	perf     telemetry.PerfStats
	err      error
}

// Viewer holds the complete window state.
type Viewer struct {
	cfg    *config.Config
	logger *slog.Logger

	state  *controls.State
	cache  *renderer.GlyphCache
	output *telemetry.OutputManager

	// Current scene and its statistics
	scene *scene.Scene
	stats telemetry.SceneStats

	// Scene on screen; lags scene while a preparation runs
	prepared *renderer.PreparedScene
	shown    scene.Settings
	textures sceneTextures
	stage    *stage.Stage

	// Background preparation
	gen      int
	inflight bool
	queued   *prepareRequest
	cancel   context.CancelFunc
	results  chan prepareResult
	prepPerf *telemetry.PerfCollector // touched only by the preparing goroutine
	lastPrep telemetry.PerfStats

	// Animation
	sched     *anim.ManualScheduler
	loop      *anim.Loop
	framePerf *telemetry.PerfCollector

	camera *camera.Camera
	panel  *Panel

	screenW, screenH float32
	status           string
	failed           bool
	lastPerfLog      float64
	dragging         bool
}

// New creates a viewer and starts preparing the configured scene. The raylib
// window must already be open.
func New(cfg *config.Config, opts Options) (*Viewer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	face, err := renderer.LoadFace(cfg.Glyphs.FontPath)
	if err != nil {
		return nil, err
	}
	resolver := renderer.NewResolver(cfg.Glyphs.CDNBase, cfg.Glyphs.Dir, cfg.Glyphs.Offline, cfg.Glyphs.FetchTimeout)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		logger.Warn("writing config snapshot", "err", err)
	}

	// configured size until handleResize sees the real window
	screenW := cfg.Derived.ScreenW32
	screenH := cfg.Derived.ScreenH32
	panel := NewPanel(float32(cfg.Screen.PanelW))

	v := &Viewer{
		cfg:       cfg,
		logger:    logger,
		state:     controls.New(cfg.Derived.Settings, cfg.Presets, cfg.Scene.Preset),
		cache:     renderer.NewGlyphCache(resolver, face, logger),
		output:    output,
		stage:     stage.New(),
		results:   make(chan prepareResult, 1),
		prepPerf:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		sched:     anim.NewManualScheduler(),
		framePerf: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		panel:     panel,
		screenW:   screenW,
		screenH:   screenH,
	}
	v.loop = anim.NewLoop(v.sched, v.animate, logger)

	settings := v.state.Committed()
	v.camera = camera.New(panel.Width(), 0, screenW-panel.Width(), screenH, float32(settings.Width), float32(settings.Height))

	v.generate(settings)
	return v, nil
}

// Update advances input, background preparation and animation by one
// display frame.
func (v *Viewer) Update() {
	v.handleInput()
	v.pollPrepare()

	v.loop.SetVisible(!rl.IsWindowMinimized() && !rl.IsWindowHidden() && rl.IsWindowFocused())
	v.sched.Advance(rl.GetTime())

	v.maybeLogPerf()
}

// animate is the loop's frame callback.
func (v *Viewer) animate(t float64) error {
	v.stage.Animate(t)
	v.framePerf.RecordFrame()
	return nil
}

// generate builds a scene for settings and queues its preparation.
func (v *Viewer) generate(settings scene.Settings) {
	sc, rep := scene.GenerateWithReport(settings)
	v.scene = sc
	v.stats = telemetry.ComputeSceneStats(settings, sc, rep)
	v.stats.LogStats()

	if err := v.output.WriteScene(v.stats); err != nil {
		v.logger.Warn("writing scene stats", "err", err)
	}
	if err := v.output.WritePlacements(telemetry.PlacementRows(settings.Seed, sc)); err != nil {
		v.logger.Warn("writing placements", "err", err)
	}
	if err := v.output.WriteSceneJSON(sc); err != nil {
		v.logger.Warn("writing scene json", "err", err)
	}

	v.requestPrepare(settings)
}

// commit applies staged edits.
func (v *Viewer) commit() {
	settings, ch := v.state.Commit()
	switch {
	case ch.Has(controls.ChangeScene) || v.scene == nil:
		v.generate(settings)
	case ch.Has(controls.ChangeRender):
		v.requestPrepare(settings)
	default:
		// identical settings generate an identical scene
		v.restartAnimation(settings.Animate)
	}
}

// requestPrepare prepares the current scene in the background. A request
// made while another runs cancels it and waits for its turn; only the
// newest request is kept.
func (v *Viewer) requestPrepare(settings scene.Settings) {
	v.gen++
	req := prepareRequest{gen: v.gen, settings: settings, scene: v.scene}
	v.status = fmt.Sprintf("preparing %q", settings.Seed)
	v.failed = false
	if v.inflight {
		v.queued = &req
		v.cancel()
		return
	}
	v.startPrepare(req)
}

func (v *Viewer) startPrepare(req prepareRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), prepareTimeout)
	v.cancel = cancel
	v.inflight = true

	opts := renderer.Options{
		Mode:          req.settings.RenderMode,
		Scale:         v.cfg.Render.Scale,
		Frame:         req.settings.Frame,
		SpritePadding: v.cfg.Render.SpritePadding,
		Concurrency:   v.cfg.Glyphs.Concurrency,
		Perf:          v.prepPerf,
		Logger:        v.logger,
	}
	go func() {
		defer cancel()
		p, err := renderer.Prepare(ctx, req.scene, opts, v.cache)
		res := prepareResult{gen: req.gen, settings: req.settings, prepared: p, err: err}
		if err == nil {
			res.perf = opts.Perf.Stats()
		}
		v.results <- res
	}()
}

// pollPrepare installs a finished preparation, if any.
func (v *Viewer) pollPrepare() {
	var res prepareResult
	select {
	case res = <-v.results:
	default:
		return
	}
	v.inflight = false
	v.cancel = nil

	if v.queued != nil {
		req := *v.queued
		v.queued = nil
		v.startPrepare(req)
		return
	}
	if res.gen != v.gen {
		return
	}
	if res.err != nil {
		v.status = "prepare failed: " + res.err.Error()
		v.failed = true
		v.logger.Error("prepare failed", "seed", res.settings.Seed, "err", res.err)
		return
	}
	v.install(res)
}

func (v *Viewer) install(res prepareResult) {
	resized := v.prepared == nil ||
		v.prepared.Scene.Width != res.prepared.Scene.Width ||
		v.prepared.Scene.Height != res.prepared.Scene.Height

	// the collector belongs to the preparing goroutine
	res.prepared.Options.Perf = nil

	v.textures.unload()
	v.textures = uploadScene(res.prepared)
	v.prepared = res.prepared
	v.shown = res.settings
	v.stage.Load(res.prepared)
	v.lastPrep = res.perf

	if resized {
		v.camera.SetScene(float32(res.prepared.Scene.Width), float32(res.prepared.Scene.Height))
	}
	if err := v.output.WritePerf(res.perf, res.settings.Seed); err != nil {
		v.logger.Warn("writing perf", "err", err)
	}

	v.status = fmt.Sprintf("ready: %d placements", v.stats.Placements)
	v.logger.Info("scene ready",
		"seed", res.settings.Seed,
		"sprites", v.stage.Len(),
		"prepare", res.perf.AvgPrepare,
		"cache", v.cache.Stats(),
	)
	v.restartAnimation(v.state.Committed().Animate)
}

// restartAnimation poses the stage at time zero and starts or stops the
// loop. Loop time is the display clock, so a restarted loop resumes there.
func (v *Viewer) restartAnimation(animate bool) {
	v.loop.Stop()
	v.stage.Animate(0)
	if animate {
		v.loop.Start()
	}
}

// toggleAnimation flips animation without regenerating.
func (v *Viewer) toggleAnimation() {
	if v.state.ToggleAnimate() {
		v.loop.Start()
		return
	}
	v.loop.Stop()
	v.stage.Animate(0)
}

// reseed stages a random seed and regenerates.
func (v *Viewer) reseed() {
	seed, err := v.state.Reseed()
	if err != nil {
		v.logger.Error("reseed", "err", err)
		return
	}
	v.logger.Info("reseed", "seed", seed)
	v.commit()
}

func (v *Viewer) maybeLogPerf() {
	interval := v.cfg.Telemetry.LogInterval
	if interval <= 0 {
		return
	}
	now := rl.GetTime()
	if now-v.lastPerfLog < interval {
		return
	}
	v.lastPerfLog = now
	frames := v.framePerf.Stats()
	v.logger.Info("perf",
		"fps", rl.GetFPS(),
		"animated_frames", frames.Frames,
		"frame", frames.FrameDuration,
		"prepare", v.lastPrep,
		"cache", v.cache.Stats(),
	)
}

// Close releases textures, stops background work and closes output files.
func (v *Viewer) Close() error {
	v.loop.Stop()
	if v.cancel != nil {
		v.cancel()
	}
	v.textures.unload()
	v.stage.Clear()
	return v.output.Close()
}

// glyphRNG seeds a generator for random glyph picks.
func glyphRNG() *prng.RNG {
	seed, err := controls.RandomSeed()
	if err != nil {
		seed = time.Now().String()
	}
	return prng.NewFromString(seed)
}
