package controls

import (
	"regexp"
	"testing"

	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/scene"
)

func base() scene.Settings {
	return scene.Settings{Seed: "abc", Width: 300, Height: 200, Density: 12, Chaos: 35, Animate: true}
}

func TestNewAppliesPreset(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		w, h   int
		label  string
	}{
		{"known", "1:1", 1200, 1200, "1:1 (1200x1200)"},
		{"unknown", "2:1", 300, 200, "custom (300x200)"},
		{"empty", "", 300, 200, "custom (300x200)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(base(), nil, tt.preset)
			got := s.Committed()
			if got.Width != tt.w || got.Height != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", got.Width, got.Height, tt.w, tt.h)
			}
			if s.PresetLabel() != tt.label {
				t.Errorf("PresetLabel() = %q, want %q", s.PresetLabel(), tt.label)
			}
			if s.Pending() != 0 {
				t.Errorf("Pending() = %v, want none", s.Pending())
			}
		})
	}
}

func TestEditsAreStagedUntilCommit(t *testing.T) {
	s := New(base(), nil, "")
	s.SetDensity(20.4)
	s.SetChaos(71.6)
	s.ToggleStrict()

	if s.Committed().Density != 12 {
		t.Error("staged density leaked into committed settings")
	}
	if s.Settings().Density != 20 || s.Settings().Chaos != 72 || !s.Settings().Strict {
		t.Errorf("staged = %+v", s.Settings())
	}

	got, ch := s.Commit()
	if !ch.Has(ChangeScene) || ch.Has(ChangeRender) {
		t.Errorf("Commit change = %v, want scene", ch)
	}
	if got.Density != 20 || got.Chaos != 72 || !got.Strict {
		t.Errorf("committed = %+v", got)
	}
	if _, ch := s.Commit(); ch != 0 {
		t.Errorf("second Commit change = %v, want none", ch)
	}
}

func TestChangeKinds(t *testing.T) {
	tests := []struct {
		name string
		edit func(*State)
		want Change
	}{
		{"density", func(s *State) { s.SetDensity(30) }, ChangeScene},
		{"same density", func(s *State) { s.SetDensity(12.2) }, 0},
		{"seed", func(s *State) { s.SetSeed("other") }, ChangeScene},
		{"same seed", func(s *State) { s.SetSeed("abc") }, 0},
		{"addon", func(s *State) { s.ToggleAddon() }, ChangeScene},
		{"frame", func(s *State) { s.ToggleFrame() }, ChangeRender},
		{"mode", func(s *State) { s.ToggleMode() }, ChangeRender},
		{"frame and chaos", func(s *State) { s.ToggleFrame(); s.SetChaos(90) }, ChangeScene | ChangeRender},
		{"animate", func(s *State) { s.ToggleAnimate() }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(base(), nil, "")
			tt.edit(s)
			if s.Pending() != tt.want {
				t.Errorf("Pending() = %v, want %v", s.Pending(), tt.want)
			}
		})
	}
}

func TestSlidersClamp(t *testing.T) {
	s := New(base(), nil, "")
	s.SetDensity(-4)
	s.SetChaos(250)
	got := s.Settings()
	if got.Density != MinDensity || got.Chaos != MaxChaos {
		t.Errorf("density %d chaos %v, want %d and %d", got.Density, got.Chaos, MinDensity, MaxChaos)
	}
}

func TestToggleModeRoundTrip(t *testing.T) {
	s := New(base(), nil, "")
	s.ToggleMode()
	if s.Settings().RenderMode != scene.RenderNativeFont {
		t.Fatalf("mode = %q, want native-font", s.Settings().RenderMode)
	}
	s.ToggleMode()
	if s.Settings().RenderMode != scene.RenderImage {
		t.Errorf("mode = %q, want image", s.Settings().RenderMode)
	}
}

func TestToggleAnimateIsImmediate(t *testing.T) {
	s := New(base(), nil, "")
	if s.ToggleAnimate() {
		t.Fatal("ToggleAnimate() = true, want false")
	}
	if s.Committed().Animate {
		t.Error("committed settings still animate")
	}
}

func TestNextPresetCycles(t *testing.T) {
	s := New(base(), nil, "")
	var ids []string
	for range len(scene.Presets) + 1 {
		s.NextPreset()
		p, ok := s.Preset()
		if !ok {
			t.Fatal("no preset after NextPreset")
		}
		ids = append(ids, p.ID)
	}
	want := []string{"16:9", "4:3", "1:1", "4:5", "16:9"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("cycle = %v, want %v", ids, want)
		}
	}
	got := s.Settings()
	if got.Width != 1200 || got.Height != 675 {
		t.Errorf("size = %dx%d, want 1200x675", got.Width, got.Height)
	}
	if !s.Pending().Has(ChangeScene) {
		t.Error("preset change not pending")
	}
}

func TestRandomGlyphs(t *testing.T) {
	a := New(base(), nil, "").RandomGlyphs(prng.NewFromString("g"))
	b := New(base(), nil, "").RandomGlyphs(prng.NewFromString("g"))
	if len(a) < minRandomGlyphs || len(a) > maxRandomGlyphs {
		t.Fatalf("got %d glyphs, want %d..%d", len(a), minRandomGlyphs, maxRandomGlyphs)
	}
	if len(a) != len(b) {
		t.Fatalf("same rng gave %d and %d glyphs", len(a), len(b))
	}
	seen := make(map[string]bool)
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("glyph %d differs: %q vs %q", i, a[i], b[i])
		}
		if seen[a[i]] {
			t.Errorf("duplicate glyph %q", a[i])
		}
		seen[a[i]] = true
	}
}

func TestReseed(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-f]{1,8}-[0-9a-f]{1,8}$`)

	s := New(base(), nil, "")
	seed, err := s.Reseed()
	if err != nil {
		t.Fatalf("Reseed: %v", err)
	}
	if !pattern.MatchString(seed) {
		t.Errorf("seed %q does not match %s", seed, pattern)
	}
	if s.Settings().Seed != seed || !s.Pending().Has(ChangeScene) {
		t.Error("reseed not staged")
	}

	other, err := RandomSeed()
	if err != nil {
		t.Fatalf("RandomSeed: %v", err)
	}
	if other == seed {
		t.Errorf("two random seeds collided: %q", seed)
	}
}

func TestChangeString(t *testing.T) {
	tests := map[Change]string{
		0:                          "none",
		ChangeScene:                "scene",
		ChangeRender:               "render",
		ChangeScene | ChangeRender: "scene+render",
	}
	for c, want := range tests {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", uint8(c), c.String(), want)
		}
	}
}
