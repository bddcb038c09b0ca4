// Package controls holds the viewer's editable generation settings.
//
// Edits are staged until Commit, mirroring a form whose values only take
// effect when the scene is regenerated. Commit reports which stages of the
// pipeline the staged edits invalidate.
package controls

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pthm-cable/aquarium/glyph"
	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/scene"
)

// Slider bounds.
const (
	MinDensity = 5
	MaxDensity = 60
	MinChaos   = 0
	MaxChaos   = 100
)

// Random glyph selections hold between these many glyphs.
const (
	minRandomGlyphs = 8
	maxRandomGlyphs = 15
)

// Change is a set of invalidated pipeline stages.
type Change uint8

const (
	// ChangeScene requires a new scene from the generator.
	ChangeScene Change = 1 << iota
	// ChangeRender requires the current scene to be prepared again.
	ChangeRender
)

// Has reports whether c includes every stage in o.
func (c Change) Has(o Change) bool { return c&o == o }

func (c Change) String() string {
	switch c {
	case 0:
		return "none"
	case ChangeScene:
		return "scene"
	case ChangeRender:
		return "render"
	case ChangeScene | ChangeRender:
		return "scene+render"
	}
	return fmt.Sprintf("Change(%d)", uint8(c))
}

// State is the staged and committed settings of a viewer session.
type State struct {
	staged    scene.Settings
	committed scene.Settings
	presets   []scene.Preset
	preset    int // index into presets, -1 for a custom size
	pending   Change
}

// New creates a state whose committed settings are settings. presetID
// selects the initial preset; an unknown or empty ID keeps settings' size.
func New(settings scene.Settings, presets []scene.Preset, presetID string) *State {
	if len(presets) == 0 {
		presets = scene.Presets
	}
	s := &State{
		presets: append([]scene.Preset(nil), presets...),
		preset:  -1,
	}
	for i, p := range s.presets {
		if p.ID == presetID {
			s.preset = i
			settings = settings.WithPreset(p)
			break
		}
	}
	settings = settings.Normalize()
	s.staged = settings
	s.committed = settings
	return s
}

// Settings returns a copy of the staged settings.
func (s *State) Settings() scene.Settings {
	out := s.staged
	out.Glyphs = append([]string(nil), s.staged.Glyphs...)
	return out
}

// Committed returns a copy of the settings of the last Commit.
func (s *State) Committed() scene.Settings {
	out := s.committed
	out.Glyphs = append([]string(nil), s.committed.Glyphs...)
	return out
}

// Pending returns the stages invalidated by staged edits.
func (s *State) Pending() Change { return s.pending }

// Commit makes the staged settings current and returns the invalidated
// stages.
func (s *State) Commit() (scene.Settings, Change) {
	s.staged = s.staged.Normalize()
	s.committed = s.staged
	ch := s.pending
	s.pending = 0
	return s.Committed(), ch
}

// Preset returns the selected preset, or false for a custom size.
func (s *State) Preset() (scene.Preset, bool) {
	if s.preset < 0 {
		return scene.Preset{}, false
	}
	return s.presets[s.preset], true
}

// PresetLabel names the staged canvas size.
func (s *State) PresetLabel() string {
	if p, ok := s.Preset(); ok {
		return p.Label
	}
	return fmt.Sprintf("custom (%dx%d)", s.staged.Width, s.staged.Height)
}

// NextPreset selects the following preset, wrapping around. A custom size
// moves to the first preset.
func (s *State) NextPreset() {
	s.preset = (s.preset + 1) % len(s.presets)
	p := s.presets[s.preset]
	if p.Width == s.staged.Width && p.Height == s.staged.Height {
		return
	}
	s.staged = s.staged.WithPreset(p)
	s.pending |= ChangeScene
}

// SetSeed stages seed.
func (s *State) SetSeed(seed string) {
	if seed == s.staged.Seed {
		return
	}
	s.staged.Seed = seed
	s.pending |= ChangeScene
}

// Reseed stages a fresh random seed and returns it.
func (s *State) Reseed() (string, error) {
	seed, err := RandomSeed()
	if err != nil {
		return "", err
	}
	s.SetSeed(seed)
	return seed, nil
}

// RandomGlyphs stages a random glyph selection drawn with rng.
func (s *State) RandomGlyphs(rng *prng.RNG) []string {
	n := rng.IntRange(minRandomGlyphs, maxRandomGlyphs)
	s.staged.Glyphs = glyph.RandomSelection(rng, n)
	s.pending |= ChangeScene
	return append([]string(nil), s.staged.Glyphs...)
}

// SetGlyphs stages an explicit glyph list; nil restores the default pool.
func (s *State) SetGlyphs(glyphs []string) {
	s.staged.Glyphs = append([]string(nil), glyphs...)
	s.pending |= ChangeScene
}

// SetDensity stages v rounded and clamped to the slider range.
func (s *State) SetDensity(v float64) {
	d := int(math.Round(clamp(v, MinDensity, MaxDensity)))
	if d == s.staged.Density {
		return
	}
	s.staged.Density = d
	s.pending |= ChangeScene
}

// SetChaos stages v rounded and clamped to the slider range.
func (s *State) SetChaos(v float64) {
	c := math.Round(clamp(v, MinChaos, MaxChaos))
	if c == s.staged.Chaos {
		return
	}
	s.staged.Chaos = c
	s.pending |= ChangeScene
}

// ToggleStrict flips strict mode.
func (s *State) ToggleStrict() {
	s.staged.Strict = !s.staged.Strict
	s.pending |= ChangeScene
}

// ToggleAddon flips the chaos add-on.
func (s *State) ToggleAddon() {
	s.staged.ChaosAddon = !s.staged.ChaosAddon
	s.pending |= ChangeScene
}

// ToggleFrame flips the frame overlay. The scene is unaffected.
func (s *State) ToggleFrame() {
	s.staged.Frame = !s.staged.Frame
	s.pending |= ChangeRender
}

// ToggleMode switches between image and native-font glyphs.
func (s *State) ToggleMode() {
	if s.staged.RenderMode == scene.RenderNativeFont {
		s.staged.RenderMode = scene.RenderImage
	} else {
		s.staged.RenderMode = scene.RenderNativeFont
	}
	s.pending |= ChangeRender
}

// ToggleAnimate flips animation on both staged and committed settings and
// returns the new value. It takes effect immediately.
func (s *State) ToggleAnimate() bool {
	s.staged.Animate = !s.staged.Animate
	s.committed.Animate = s.staged.Animate
	return s.staged.Animate
}

// RandomSeed returns a seed string of two random 32-bit words in hex.
func RandomSeed() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("reading random seed: %w", err)
	}
	return fmt.Sprintf("%x-%x", binary.LittleEndian.Uint32(buf[:4]), binary.LittleEndian.Uint32(buf[4:])), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
