package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, scene JSON and config snapshot")
	seed := flag.String("seed", "", "Scene seed (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != "" {
		cfg.Scene.Seed = *seed
		cfg.Derived.Settings.Seed = *seed
	}

	dir := *outputDir
	if dir == "" {
		dir = cfg.Telemetry.OutputDir
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetWindowMinSize(cfg.Screen.PanelW+200, 300)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v, err := viewer.New(cfg, viewer.Options{OutputDir: dir, Logger: logger})
	if err != nil {
		slog.Error("failed to start viewer", "error", err)
		return
	}
	defer func() {
		if err := v.Close(); err != nil {
			slog.Error("closing viewer", "error", err)
		}
	}()

	slog.Info("viewer started",
		"seed", cfg.Derived.Settings.Seed,
		"width", cfg.Derived.Settings.Width,
		"height", cfg.Derived.Settings.Height,
		"output_dir", dir,
	)

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}
