// Package telemetry collects scene statistics and preparation timing and
// writes them as CSV, JSON and YAML.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/aquarium/components"
	"github.com/pthm-cable/aquarium/prng"
	"github.com/pthm-cable/aquarium/scene"
)

// SceneStats summarises one generated scene.
type SceneStats struct {
	Seed    string  `csv:"seed"`
	Hash    uint32  `csv:"hash"`
	Width   int     `csv:"width"`
	Height  int     `csv:"height"`
	Density int     `csv:"density"`
	Chaos   float64 `csv:"chaos"`
	Strict  bool    `csv:"strict"`
	Addon   bool    `csv:"chaos_addon"`
	Draws   uint64  `csv:"draws"`

	// Population
	Creatures  int `csv:"creatures"`
	Static     int `csv:"static_placements"`
	Placements int `csv:"placements"`
	Big        int `csv:"big"`
	Mid        int `csv:"mid"`
	Small      int `csv:"small"`
	Schools    int `csv:"schools"`
	Corals     int `csv:"corals"`

	// Decor
	Hero        bool `csv:"hero"`
	Centerpiece bool `csv:"centerpiece"`
	Bubbles     int  `csv:"bubbles"`
	Props       int  `csv:"props"`
	Sparkles    int  `csv:"sparkles"`

	// Placement sampling
	Reservations   int     `csv:"reservations"`
	SampleFallback int     `csv:"sample_fallbacks"`
	MeanAttempts   float64 `csv:"mean_attempts"`
	Coverage       float64 `csv:"coverage"`
	Guaranteed     int     `csv:"guaranteed"`

	// Tag histogram over every placement
	TagBody   int `csv:"tag_body"`
	TagEye    int `csv:"tag_eye"`
	TagFin    int `csv:"tag_fin"`
	TagAccent int `csv:"tag_accent"`
	TagBubble int `csv:"tag_bubble"`
	TagProp   int `csv:"tag_prop"`

	// Nearest-neighbour distance between creature centres
	SpacingMean float64 `csv:"spacing_mean"`
	SpacingStd  float64 `csv:"spacing_std"`
	SpacingP10  float64 `csv:"spacing_p10"`
	SpacingP50  float64 `csv:"spacing_p50"`
	SpacingP90  float64 `csv:"spacing_p90"`
}

// ComputeSceneStats summarises sc, generated from settings. rep may be nil,
// in which case only the fields derivable from the scene are filled.
func ComputeSceneStats(settings scene.Settings, sc *scene.Scene, rep *scene.Report) SceneStats {
	settings = settings.Normalize()
	s := SceneStats{
		Seed:       settings.Seed,
		Hash:       prng.HashString(settings.SeedString()),
		Width:      sc.Width,
		Height:     sc.Height,
		Density:    settings.Density,
		Chaos:      settings.Chaos,
		Strict:     settings.Strict,
		Addon:      settings.ChaosAddon,
		Creatures:  len(sc.Creatures),
		Static:     len(sc.StaticPlacements),
		Placements: sc.PlacementCount(),
	}

	var tags [6]int
	for _, p := range sc.AllPlacements() {
		if int(p.Tag) < len(tags) {
			tags[p.Tag]++
		}
	}
	s.TagBody = tags[components.TagBody]
	s.TagEye = tags[components.TagEye]
	s.TagFin = tags[components.TagFin]
	s.TagAccent = tags[components.TagAccent]
	s.TagBubble = tags[components.TagBubble]
	s.TagProp = tags[components.TagProp]

	centres := make([]components.Point, len(sc.Creatures))
	for i, c := range sc.Creatures {
		centres[i] = c.Center
	}
	s.SpacingMean, s.SpacingStd, s.SpacingP10, s.SpacingP50, s.SpacingP90 = DistributionStats(NearestNeighbour(centres))

	if rep != nil {
		s.applyReport(rep)
	}
	return s
}

func (s *SceneStats) applyReport(rep *scene.Report) {
	s.Draws = rep.Draws
	s.Big, s.Mid, s.Small = rep.Counts.Big, rep.Counts.Mid, rep.Counts.Small
	s.Schools = rep.Schools
	s.Corals = rep.Corals
	s.Hero = rep.Hero
	s.Centerpiece = rep.Centerpiece
	s.Bubbles = rep.Bubbles
	s.Props = rep.Props
	s.Sparkles = rep.Sparkles
	s.Guaranteed = len(rep.Fallbacks)

	s.Reservations = len(rep.Occupancy)
	var attempts, sampled int
	var area float64
	for _, r := range rep.Occupancy {
		area += math.Pi * r.R * r.R
		if r.Anchored {
			continue
		}
		sampled++
		attempts += r.Attempts
		if r.Fallback {
			s.SampleFallback++
		}
	}
	if sampled > 0 {
		s.MeanAttempts = float64(attempts) / float64(sampled)
	}
	if s.Width > 0 && s.Height > 0 {
		s.Coverage = area / float64(s.Width*s.Height)
	}
}

// NearestNeighbour returns, for each point, the distance to the closest other
// point. It returns nil for fewer than two points.
func NearestNeighbour(points []components.Point) []float64 {
	if len(points) < 2 {
		return nil
	}
	out := make([]float64, len(points))
	for i, a := range points {
		best := math.Inf(1)
		for j, b := range points {
			if i == j {
				continue
			}
			best = math.Min(best, math.Hypot(a.X-b.X, a.Y-b.Y))
		}
		out[i] = best
	}
	return out
}

// DistributionStats returns the mean, sample standard deviation and the
// 10th, 50th and 90th percentiles of values. Empty input yields zeros.
func DistributionStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		std = stat.StdDev(sorted, nil)
	}
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s SceneStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("seed", s.Seed),
		slog.Int("width", s.Width),
		slog.Int("height", s.Height),
		slog.Int("density", s.Density),
		slog.Float64("chaos", s.Chaos),
		slog.Uint64("draws", s.Draws),
		slog.Int("creatures", s.Creatures),
		slog.Int("placements", s.Placements),
		slog.Bool("hero", s.Hero),
		slog.Bool("centerpiece", s.Centerpiece),
		slog.Int("sample_fallbacks", s.SampleFallback),
		slog.Float64("coverage", s.Coverage),
		slog.Float64("spacing_mean", s.SpacingMean),
		slog.Float64("spacing_p50", s.SpacingP50),
	)
}

// LogStats logs the scene stats using slog.
func (s SceneStats) LogStats() {
	slog.Info("scene", "stats", s)
}

// PlacementRow is one placement flattened for placements.csv.
type PlacementRow struct {
	Seed     string  `csv:"seed"`
	Owner    string  `csv:"owner"`
	Creature int     `csv:"creature"`
	Glyph    string  `csv:"glyph"`
	Tag      string  `csv:"tag"`
	Layer    int     `csv:"layer"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Scale    float64 `csv:"scale"`
	Rotation float64 `csv:"rotation"`
	Opacity  float64 `csv:"opacity"`
}

// PlacementRows flattens every placement of sc. Static placements have
// owner "static" and creature index -1.
func PlacementRows(seed string, sc *scene.Scene) []PlacementRow {
	rows := make([]PlacementRow, 0, sc.PlacementCount())
	add := func(owner string, creature int, p components.Placement) {
		rows = append(rows, PlacementRow{
			Seed:     seed,
			Owner:    owner,
			Creature: creature,
			Glyph:    p.Glyph,
			Tag:      p.Tag.String(),
			Layer:    p.Layer,
			X:        p.X,
			Y:        p.Y,
			Scale:    p.Scale,
			Rotation: p.Rotation,
			Opacity:  p.Alpha(),
		})
	}
	for _, p := range sc.StaticPlacements {
		add("static", -1, p)
	}
	for i, c := range sc.Creatures {
		for _, p := range c.Placements {
			add(c.ID, i, p)
		}
	}
	return rows
}
