// Package config provides configuration loading and access for the aquarium.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/aquarium/scene"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPrefix prefixes every environment override.
const EnvPrefix = "AQUARIUM_"

// Config holds all aquarium configuration.
type Config struct {
	Scene     SceneConfig     `yaml:"scene" envPrefix:"SCENE_"`
	Presets   []scene.Preset  `yaml:"presets"`
	Render    RenderConfig    `yaml:"render" envPrefix:"RENDER_"`
	Glyphs    GlyphsConfig    `yaml:"glyphs" envPrefix:"GLYPHS_"`
	Screen    ScreenConfig    `yaml:"screen" envPrefix:"SCREEN_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SceneConfig holds the default generation settings.
type SceneConfig struct {
	Seed       string   `yaml:"seed" env:"SEED"`
	Preset     string   `yaml:"preset" env:"PRESET"` // preset ID; overrides width/height when set
	Glyphs     []string `yaml:"glyphs" env:"GLYPHS" envSeparator:","`
	Width      int      `yaml:"width" env:"WIDTH"`
	Height     int      `yaml:"height" env:"HEIGHT"`
	Density    int      `yaml:"density" env:"DENSITY"`
	Chaos      float64  `yaml:"chaos" env:"CHAOS"`
	Strict     bool     `yaml:"strict" env:"STRICT"`
	ChaosAddon bool     `yaml:"chaos_addon" env:"CHAOS_ADDON"`
	RenderMode string   `yaml:"render_mode" env:"RENDER_MODE"` // image | native-font
	Frame      bool     `yaml:"frame" env:"FRAME"`
	Animate    bool     `yaml:"animate" env:"ANIMATE"`
}

// RenderConfig holds rasterisation and animation parameters.
type RenderConfig struct {
	Scale         float64 `yaml:"scale" env:"SCALE"`                   // pixels per scene unit
	SpritePadding float64 `yaml:"sprite_padding" env:"SPRITE_PADDING"` // scene units around each sprite
	FPS           int     `yaml:"fps" env:"FPS"`                       // animate command frame rate
	Duration      float64 `yaml:"duration" env:"DURATION"`             // animate command length, seconds
}

// GlyphsConfig holds glyph image resolution parameters.
type GlyphsConfig struct {
	CDNBase      string        `yaml:"cdn_base" env:"CDN_BASE"`
	Dir          string        `yaml:"dir" env:"DIR"` // local PNG directory, tried before the CDN
	Offline      bool          `yaml:"offline" env:"OFFLINE"`
	FontPath     string        `yaml:"font_path" env:"FONT_PATH"` // OpenType face for the native fallback
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT"`
	Concurrency  int           `yaml:"concurrency" env:"CONCURRENCY"`
}

// ScreenConfig holds viewer window settings.
type ScreenConfig struct {
	Width     int    `yaml:"width" env:"WIDTH"`
	Height    int    `yaml:"height" env:"HEIGHT"`
	TargetFPS int    `yaml:"target_fps" env:"TARGET_FPS"`
	Title     string `yaml:"title" env:"TITLE"`
	PanelW    int    `yaml:"panel_width" env:"PANEL_WIDTH"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int     `yaml:"perf_collector_window" env:"PERF_WINDOW"`
	LogInterval         float64 `yaml:"log_interval" env:"LOG_INTERVAL"` // seconds between viewer perf lines, 0 disables
	OutputDir           string  `yaml:"output_dir" env:"OUTPUT_DIR"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Settings  scene.Settings // normalised scene defaults with the preset applied
	ScreenW32 float32
	ScreenH32 float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads the embedded defaults, merges the YAML file at path over them
// and then applies AQUARIUM_* environment overrides. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// only fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived fills defaults for zero values and resolves the preset.
func (c *Config) computeDerived() error {
	if len(c.Presets) == 0 {
		c.Presets = append([]scene.Preset(nil), scene.Presets...)
	}
	if c.Render.Scale <= 0 {
		c.Render.Scale = 1
	}
	if c.Render.FPS <= 0 {
		c.Render.FPS = 30
	}
	if c.Glyphs.Concurrency <= 0 {
		c.Glyphs.Concurrency = 8
	}
	if c.Telemetry.PerfCollectorWindow <= 0 {
		c.Telemetry.PerfCollectorWindow = 16
	}

	s := c.Scene.Settings()
	if c.Scene.Preset != "" {
		p, ok := scene.LookupPreset(c.Presets, c.Scene.Preset)
		if !ok {
			return fmt.Errorf("unknown preset %q", c.Scene.Preset)
		}
		s = s.WithPreset(p)
	}
	c.Derived.Settings = s.Normalize()
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	return nil
}

// Settings converts the section to generation settings without applying
// the preset.
func (s SceneConfig) Settings() scene.Settings {
	return scene.Settings{
		Seed:       s.Seed,
		Glyphs:     append([]string(nil), s.Glyphs...),
		Width:      s.Width,
		Height:     s.Height,
		Density:    s.Density,
		Chaos:      s.Chaos,
		Strict:     s.Strict,
		ChaosAddon: s.ChaosAddon,
		RenderMode: scene.RenderMode(s.RenderMode),
		Frame:      s.Frame,
		Animate:    s.Animate,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
