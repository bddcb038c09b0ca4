package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/glyph"
	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/scene"
)

// Random glyph selections hold between these many glyphs.
const minRandomGlyphs, maxRandomGlyphs = 8, 15

// sceneFlags are the generation flags shared by every scene command.
// A flag overrides the configuration only when it is set.
type sceneFlags struct {
	config       string
	seed         string
	glyphs       string
	randomGlyphs bool
	preset       string
	width        int
	height       int
	density      int
	chaos        float64
	strict       bool
	addon        bool
	mode         string
	scale        float64
	frame        bool
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "Path to config.yaml (empty = use defaults)")
	fs.StringVarP(&f.seed, "seed", "s", "", "Scene seed")
	fs.StringVarP(&f.glyphs, "glyphs", "g", "", "Glyph pool, e.g. \"🐟 🐙 🫧\" (empty = default pool)")
	fs.BoolVar(&f.randomGlyphs, "random-glyphs", false, "Pick a random glyph pool from the seed")
	fs.StringVar(&f.preset, "preset", "", "Canvas preset ID (16:9, 4:3, 1:1, 4:5)")
	fs.IntVar(&f.width, "width", 0, "Canvas width in scene units")
	fs.IntVar(&f.height, "height", 0, "Canvas height in scene units")
	fs.IntVarP(&f.density, "density", "d", 0, "Creature count")
	fs.Float64Var(&f.chaos, "chaos", 0, "Chaos 0..100")
	fs.BoolVar(&f.strict, "strict", false, "Use only the given glyphs")
	fs.BoolVar(&f.addon, "addon", false, "Add hazard props to the prop pool")
	fs.StringVar(&f.mode, "mode", "", "Glyph rendering: image or native-font")
	fs.Float64Var(&f.scale, "scale", 0, "Pixels per scene unit")
	fs.BoolVar(&f.frame, "frame", false, "Draw the frame overlay")
}

// load reads the configuration and applies the set flags to it. The
// returned settings are normalised and ready for generation.
func (f *sceneFlags) load(cmd *cobra.Command) (*config.Config, scene.Settings, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, scene.Settings{}, err
	}
	s, err := f.apply(cmd, cfg)
	if err != nil {
		return nil, scene.Settings{}, err
	}
	return cfg, s, nil
}

func (f *sceneFlags) apply(cmd *cobra.Command, cfg *config.Config) (scene.Settings, error) {
	set := cmd.Flags().Changed
	s := cfg.Derived.Settings

	if set("preset") {
		p, ok := scene.LookupPreset(cfg.Presets, f.preset)
		if !ok {
			return s, fmt.Errorf("unknown preset %q", f.preset)
		}
		s = s.WithPreset(p)
	}
	if set("width") {
		s.Width = f.width
	}
	if set("height") {
		s.Height = f.height
	}
	if set("seed") {
		s.Seed = f.seed
	}
	if set("density") {
		s.Density = f.density
	}
	if set("chaos") {
		s.Chaos = f.chaos
	}
	if set("strict") {
		s.Strict = f.strict
	}
	if set("addon") {
		s.ChaosAddon = f.addon
	}
	if set("frame") {
		s.Frame = f.frame
	}
	if set("mode") {
		switch m := scene.RenderMode(f.mode); m {
		case scene.RenderImage, scene.RenderNativeFont:
			s.RenderMode = m
		default:
			return s, fmt.Errorf("unknown render mode %q", f.mode)
		}
	}
	if set("scale") {
		if f.scale <= 0 {
			return s, fmt.Errorf("scale must be positive, got %g", f.scale)
		}
		cfg.Render.Scale = f.scale
	}

	s = s.Normalize()
	switch {
	case f.randomGlyphs:
		rng := prng.NewFromString(s.Seed)
		s.Glyphs = glyph.RandomSelection(rng, rng.IntRange(minRandomGlyphs, maxRandomGlyphs))
	case set("glyphs"):
		s.Glyphs = glyph.Parse(f.glyphs)
	}
	return s, nil
}

// createOutput opens path for writing; "" and "-" mean stdout.
func createOutput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
