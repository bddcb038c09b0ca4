package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pthm-cable/aquarium/scene"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aquarium.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.Derived.Settings
	if s.Width != 1200 || s.Height != 675 {
		t.Errorf("default size = %dx%d, want 1200x675", s.Width, s.Height)
	}
	if s.RenderMode != scene.RenderImage {
		t.Errorf("render mode = %q", s.RenderMode)
	}
	if len(cfg.Presets) != len(scene.Presets) {
		t.Errorf("presets = %d, want %d", len(cfg.Presets), len(scene.Presets))
	}
	if cfg.Glyphs.FetchTimeout != 5*time.Second {
		t.Errorf("fetch timeout = %v", cfg.Glyphs.FetchTimeout)
	}
	if cfg.Render.FPS != 24 || cfg.Render.Scale != 1 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if cfg.Derived.ScreenW32 != 1280 || cfg.Derived.ScreenH32 != 800 {
		t.Errorf("derived screen = %vx%v, want 1280x800", cfg.Derived.ScreenW32, cfg.Derived.ScreenH32)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeFile(t, `
scene:
  seed: "reef"
  preset: "1:1"
  chaos: 80
  glyphs: ["🐙", "🫧"]
render:
  scale: 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.Derived.Settings
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"seed", s.Seed, "reef"},
		{"width", s.Width, 1200},
		{"height", s.Height, 1200},
		{"chaos", s.Chaos, 80.0},
		{"density untouched", s.Density, 12},
		{"glyph count", len(s.Glyphs), 2},
		{"scale", cfg.Render.Scale, 2.0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AQUARIUM_SCENE_DENSITY", "30")
	t.Setenv("AQUARIUM_SCENE_GLYPHS", "🐟,🪸")
	t.Setenv("AQUARIUM_SCENE_STRICT", "true")
	t.Setenv("AQUARIUM_GLYPHS_OFFLINE", "true")
	t.Setenv("AQUARIUM_GLYPHS_FETCH_TIMEOUT", "250ms")

	path := writeFile(t, "scene:\n  density: 4\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := cfg.Derived.Settings
	if s.Density != 30 {
		t.Errorf("density = %d, want environment value 30", s.Density)
	}
	if !s.Strict {
		t.Error("strict not applied")
	}
	if len(s.Glyphs) != 2 || s.Glyphs[0] != "🐟" || s.Glyphs[1] != "🪸" {
		t.Errorf("glyphs = %q", s.Glyphs)
	}
	if !cfg.Glyphs.Offline || cfg.Glyphs.FetchTimeout != 250*time.Millisecond {
		t.Errorf("glyphs = %+v", cfg.Glyphs)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.yaml")},
		{"bad yaml", writeFile(t, "scene: [")},
		{"unknown preset", writeFile(t, "scene:\n  preset: \"3:2\"\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPresetDisabledKeepsSize(t *testing.T) {
	cfg, err := Load(writeFile(t, "scene:\n  preset: \"\"\n  width: 640\n  height: 360\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s := cfg.Derived.Settings; s.Width != 640 || s.Height != 360 {
		t.Errorf("size = %dx%d, want 640x360", s.Width, s.Height)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load(writeFile(t, "scene:\n  seed: \"kelp\"\n  density: 7\n"))
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(out); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	again, err := Load(out)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if again.Derived.Settings.Seed != "kelp" || again.Derived.Settings.Density != 7 {
		t.Errorf("snapshot lost settings: %+v", again.Derived.Settings)
	}
	if again.Glyphs.FetchTimeout != cfg.Glyphs.FetchTimeout {
		t.Errorf("fetch timeout %v, want %v", again.Glyphs.FetchTimeout, cfg.Glyphs.FetchTimeout)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Screen.TargetFPS != 60 {
		t.Errorf("target fps = %d", Cfg().Screen.TargetFPS)
	}
}
