// Command aquarium generates and renders emoji aquarium scenes without a
// window.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	// Set up slog (JSON to stderr; stdout carries command output)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	rootCmd := &cobra.Command{
		Use:           "aquarium",
		Short:         "Deterministic emoji aquarium generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(animateCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var flags sceneFlags
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a scene and write it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, settings, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return runGenerate(settings, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file (- = stdout)")
	return cmd
}

func renderCmd() *cobra.Command {
	var flags sceneFlags
	var out, sceneFile string
	var t float64

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of a scene as PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, settings, err := flags.load(cmd)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, settings, sceneFile, out, t)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG (empty = aquarium-<seed>.png)")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "Render a scene JSON file instead of generating")
	cmd.Flags().Float64VarP(&t, "time", "t", 0, "Animation time in seconds")
	return cmd
}

func animateCmd() *cobra.Command {
	var flags sceneFlags
	var out, sceneFile string
	var fps int
	var duration float64

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Render an animated GIF of a scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, settings, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fps") {
				cfg.Render.FPS = fps
			}
			if cmd.Flags().Changed("duration") {
				cfg.Render.Duration = duration
			}
			return runAnimate(cmd.Context(), cfg, settings, sceneFile, out)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output GIF (empty = aquarium-<seed>.gif)")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "Animate a scene JSON file instead of generating")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frames per second (0 = use config)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Length in seconds (0 = use config)")
	return cmd
}

func statsCmd() *cobra.Command {
	var flags sceneFlags
	var outputDir string
	var count int
	var prepare bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print scene statistics and optionally write CSV/JSON output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, settings, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = cfg.Telemetry.OutputDir
			}
			return runStats(cmd.Context(), cfg, settings, statsOptions{
				outputDir: outputDir,
				count:     count,
				prepare:   prepare,
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for scenes.csv, placements.csv, perf.csv, scene.json and config.yaml")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of scenes, seeded <seed>-0 .. <seed>-(n-1) when n > 1")
	cmd.Flags().BoolVar(&prepare, "prepare", false, "Also prepare each scene and record timing")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Print a fresh random seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.OutOrStdout())
		},
	}
}
