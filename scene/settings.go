package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderMode selects how glyphs are drawn. Generation ignores it.
type RenderMode string

const (
	RenderImage      RenderMode = "image"
	RenderNativeFont RenderMode = "native-font"
)

// DefaultSeed replaces an empty seed string.
const DefaultSeed = "seed"

// Settings is the sole input of scene generation.
// RenderMode, Frame and Animate are consumed only by renderers.
type Settings struct {
	Seed       string     `yaml:"seed" json:"seed"`
	Glyphs     []string   `yaml:"glyphs" json:"glyphs"`
	Width      int        `yaml:"width" json:"width"`
	Height     int        `yaml:"height" json:"height"`
	Density    int        `yaml:"density" json:"density"`
	Chaos      float64    `yaml:"chaos" json:"chaos"`
	Strict     bool       `yaml:"strict" json:"strict"`
	ChaosAddon bool       `yaml:"chaos_addon" json:"chaos_addon"`
	RenderMode RenderMode `yaml:"render_mode" json:"render_mode"`
	Frame      bool       `yaml:"frame" json:"frame"`
	Animate    bool       `yaml:"animate" json:"animate"`
}

// Normalize returns a copy with every field in its valid range.
func (s Settings) Normalize() Settings {
	s.Seed = strings.TrimSpace(s.Seed)
	if s.Seed == "" {
		s.Seed = DefaultSeed
	}
	s.Width = max(1, s.Width)
	s.Height = max(1, s.Height)
	s.Density = max(0, s.Density)
	s.Chaos = min(100, max(0, s.Chaos))
	if s.RenderMode != RenderNativeFont {
		s.RenderMode = RenderImage
	}
	return s
}

// SeedString is the text hashed into the generator seed. Every generation
// input participates, so changing any of them changes the scene.
func (s Settings) SeedString() string {
	return fmt.Sprintf("%s|%dx%d|%s|%d|%s|%s|%s",
		s.Seed,
		s.Width, s.Height,
		strings.Join(s.Glyphs, ""),
		s.Density,
		strconv.FormatFloat(s.Chaos, 'f', -1, 64),
		flag(s.Strict),
		flag(s.ChaosAddon),
	)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Preset is a named canvas size.
type Preset struct {
	ID     string `yaml:"id" json:"id"`
	Label  string `yaml:"label" json:"label"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// Presets are the built-in aspect ratios. The first is the default.
var Presets = []Preset{
	{ID: "16:9", Label: "16:9 (1200x675)", Width: 1200, Height: 675},
	{ID: "4:3", Label: "4:3 (1200x900)", Width: 1200, Height: 900},
	{ID: "1:1", Label: "1:1 (1200x1200)", Width: 1200, Height: 1200},
	{ID: "4:5", Label: "4:5 (1200x1500)", Width: 1200, Height: 1500},
}

// LookupPreset finds a preset by ID in list.
func LookupPreset(list []Preset, id string) (Preset, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

// WithPreset returns s sized to p.
func (s Settings) WithPreset(p Preset) Settings {
	s.Width = p.Width
	s.Height = p.Height
	return s
}
