package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/scene"
)

func parse(t *testing.T, args ...string) (*sceneFlags, *cobra.Command) {
	t.Helper()
	var f sceneFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return &f, cmd
}

func TestSceneFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, s scene.Settings, cfg *config.Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, s scene.Settings, _ *config.Config) {
				if s.Seed != "seed" || s.Width != 1200 || s.Height != 675 || s.Density != 12 {
					t.Errorf("settings = %+v", s)
				}
			},
		},
		{
			name: "preset then width",
			args: []string{"--preset", "4:5", "--width", "600"},
			check: func(t *testing.T, s scene.Settings, _ *config.Config) {
				if s.Width != 600 || s.Height != 1500 {
					t.Errorf("size = %dx%d, want 600x1500", s.Width, s.Height)
				}
			},
		},
		{
			name: "generation flags",
			args: []string{"-s", "reef", "-d", "20", "--chaos", "250", "--strict", "--addon", "--frame", "--mode", "native-font"},
			check: func(t *testing.T, s scene.Settings, _ *config.Config) {
				if s.Seed != "reef" || s.Density != 20 || s.Chaos != 100 {
					t.Errorf("seed/density/chaos = %q/%d/%v", s.Seed, s.Density, s.Chaos)
				}
				if !s.Strict || !s.ChaosAddon || !s.Frame || s.RenderMode != scene.RenderNativeFont {
					t.Errorf("toggles = %+v", s)
				}
			},
		},
		{
			name: "glyph list",
			args: []string{"--glyphs", "🐙 🐙 🫧"},
			check: func(t *testing.T, s scene.Settings, _ *config.Config) {
				if len(s.Glyphs) != 2 || s.Glyphs[0] != "🐙" || s.Glyphs[1] != "🫧" {
					t.Errorf("glyphs = %q", s.Glyphs)
				}
			},
		},
		{
			name: "scale",
			args: []string{"--scale", "2"},
			check: func(t *testing.T, _ scene.Settings, cfg *config.Config) {
				if cfg.Render.Scale != 2 {
					t.Errorf("scale = %v, want 2", cfg.Render.Scale)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cmd := parse(t, tt.args...)
			cfg, s, err := f.load(cmd)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.check(t, s, cfg)
		})
	}
}

func TestSceneFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown preset", []string{"--preset", "2:1"}},
		{"unknown mode", []string{"--mode", "svg"}},
		{"zero scale", []string{"--scale", "0"}},
		{"missing config", []string{"--config", "/nonexistent/config.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cmd := parse(t, tt.args...)
			if _, _, err := f.load(cmd); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRandomGlyphsFollowSeed(t *testing.T) {
	f1, cmd1 := parse(t, "--random-glyphs", "-s", "abc")
	_, a, err := f1.load(cmd1)
	if err != nil {
		t.Fatal(err)
	}
	f2, cmd2 := parse(t, "--random-glyphs", "-s", "abc")
	_, b, err := f2.load(cmd2)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Glyphs) < minRandomGlyphs || len(a.Glyphs) > maxRandomGlyphs {
		t.Fatalf("got %d glyphs", len(a.Glyphs))
	}
	if len(a.Glyphs) != len(b.Glyphs) {
		t.Fatalf("same seed gave %d and %d glyphs", len(a.Glyphs), len(b.Glyphs))
	}
	for i := range a.Glyphs {
		if a.Glyphs[i] != b.Glyphs[i] {
			t.Errorf("glyph %d: %q vs %q", i, a.Glyphs[i], b.Glyphs[i])
		}
	}
}
