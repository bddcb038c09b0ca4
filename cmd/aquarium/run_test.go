package main

import (
	"bytes"
	"context"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/scene"
)

func offlineConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Glyphs.Offline = true
	cfg.Render.FPS = 4
	cfg.Render.Duration = 0.5
	return cfg
}

func smallSettings() scene.Settings {
	return scene.Settings{
		Seed:       "cli",
		Width:      160,
		Height:     120,
		Density:    4,
		Chaos:      20,
		RenderMode: scene.RenderNativeFont,
	}.Normalize()
}

func TestRunGenerateWritesDecodableScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := runGenerate(smallSettings(), path); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc, err := scene.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := scene.Generate(smallSettings())
	if sc.Width != want.Width || len(sc.Creatures) != len(want.Creatures) || sc.PlacementCount() != want.PlacementCount() {
		t.Errorf("decoded scene differs from a fresh generation")
	}
}

func TestRunRenderFromSceneFile(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "scene.json")
	if err := runGenerate(smallSettings(), sceneFile); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "frame.png")
	cfg := offlineConfig(t)
	if err := runRender(context.Background(), cfg, smallSettings(), sceneFile, out, 1.5); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("png is %dx%d, want 160x120", b.Dx(), b.Dy())
	}
}

func TestRunAnimateFrameCount(t *testing.T) {
	out := filepath.Join(t.TempDir(), "movie.gif")
	cfg := offlineConfig(t)
	if err := runAnimate(context.Background(), cfg, smallSettings(), "", out); err != nil {
		t.Fatalf("runAnimate: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decoding gif: %v", err)
	}
	// 0.5s at 4fps
	if len(g.Image) != 2 {
		t.Errorf("got %d frames, want 2", len(g.Image))
	}
	for i, d := range g.Delay {
		if d != 25 {
			t.Errorf("frame %d delay = %d, want 25", i, d)
		}
	}
}

func TestRunAnimateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := filepath.Join(t.TempDir(), "movie.gif")
	if err := runAnimate(ctx, offlineConfig(t), smallSettings(), "", out); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestRunStatsWritesOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := offlineConfig(t)
	err := runStats(context.Background(), cfg, smallSettings(), statsOptions{outputDir: dir, count: 3, prepare: true})
	if err != nil {
		t.Fatalf("runStats: %v", err)
	}

	for _, name := range []string{"scenes.csv", "placements.csv", "perf.csv", "scene.json", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "scenes.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("scenes.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[1], "cli-0,") || !strings.HasPrefix(lines[3], "cli-2,") {
		t.Errorf("unexpected seeds in scenes.csv:\n%s", data)
	}
}

func TestStatsSettings(t *testing.T) {
	s := smallSettings()
	if got := statsSettings(s, 1); len(got) != 1 || got[0].Seed != "cli" {
		t.Errorf("count 1 = %+v", got)
	}
	got := statsSettings(s, 3)
	if len(got) != 3 || got[0].Seed != "cli-0" || got[2].Seed != "cli-2" || got[1].Density != s.Density {
		t.Errorf("count 3 = %+v", got)
	}
}

func TestRunSeed(t *testing.T) {
	var buf bytes.Buffer
	if err := runSeed(&buf); err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^[0-9a-f]+-[0-9a-f]+\n$`).MatchString(buf.String()) {
		t.Errorf("seed output %q", buf.String())
	}
}

func TestDefaultName(t *testing.T) {
	tests := map[string]string{
		"reef":   "aquarium-reef.png",
		"a/b":    "aquarium-a_b.png",
		`c:\d`:   `aquarium-c:_d.png`,
		"🐟 fish": "aquarium-🐟 fish.png",
	}
	for seed, want := range tests {
		if got := defaultName(seed, ".png"); got != want {
			t.Errorf("defaultName(%q) = %q, want %q", seed, got, want)
		}
	}
}
