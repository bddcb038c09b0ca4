package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for scene preparation.
const (
	PhasePreload    = "preload"
	PhaseBackground = "background"
	PhaseLayers     = "layers"
	PhaseSprites    = "sprites"
)

// phaseOrder lists the phases in the order they run.
var phaseOrder = []string{PhasePreload, PhaseBackground, PhaseLayers, PhaseSprites}

// PerfSample holds timing data for a single preparation pass.
type PerfSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks preparation and frame timing over a rolling window.
// It is not safe for concurrent use.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	passStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Frame timing, recorded by the compositor
	lastFrameTime time.Time
	frameDuration time.Duration
	frames        int64
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of preparation passes to average over.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 16
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartPass begins timing a preparation pass.
func (p *PerfCollector) StartPass() {
	p.passStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndPass finishes timing the current pass and records the sample.
func (p *PerfCollector) EndPass() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		Duration: now.Sub(p.passStart),
		Phases:   p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// RecordFrame records the interval since the previous composited frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
	p.frames++
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	Passes int

	AvgPrepare time.Duration
	MinPrepare time.Duration
	MaxPrepare time.Duration

	// Phase breakdown (average durations)
	PhaseAvg map[string]time.Duration

	// Phase percentages of total pass time
	PhasePct map[string]float64

	Frames        int64
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	// Frame timing is independent of the pass samples
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}
	stats := PerfStats{
		Passes:        p.sampleCount,
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		Frames:        p.frames,
		FrameDuration: p.frameDuration,
		FPS:           fps,
	}
	if p.sampleCount == 0 {
		return stats
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		total += s.Duration
		if i == 0 || s.Duration < stats.MinPrepare {
			stats.MinPrepare = s.Duration
		}
		if s.Duration > stats.MaxPrepare {
			stats.MaxPrepare = s.Duration
		}
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	stats.AvgPrepare = total / time.Duration(p.sampleCount)
	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		stats.PhaseAvg[phase] = avg
		if stats.AvgPrepare > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(stats.AvgPrepare) * 100
		}
	}
	return stats
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"passes", s.Passes,
		"avg_prepare_us", s.AvgPrepare.Microseconds(),
		"min_prepare_us", s.MinPrepare.Microseconds(),
		"max_prepare_us", s.MaxPrepare.Microseconds(),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("passes", s.Passes),
		slog.Int64("avg_prepare_us", s.AvgPrepare.Microseconds()),
		slog.Int64("max_prepare_us", s.MaxPrepare.Microseconds()),
		slog.Int64("frames", s.Frames),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Seed          string  `csv:"seed"`
	Passes        int     `csv:"passes"`
	AvgPrepareUS  int64   `csv:"avg_prepare_us"`
	MinPrepareUS  int64   `csv:"min_prepare_us"`
	MaxPrepareUS  int64   `csv:"max_prepare_us"`
	Frames        int64   `csv:"frames"`
	FPS           float64 `csv:"fps"`
	PreloadPct    float64 `csv:"preload_pct"`
	BackgroundPct float64 `csv:"background_pct"`
	LayersPct     float64 `csv:"layers_pct"`
	SpritesPct    float64 `csv:"sprites_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(seed string) PerfStatsCSV {
	return PerfStatsCSV{
		Seed:          seed,
		Passes:        s.Passes,
		AvgPrepareUS:  s.AvgPrepare.Microseconds(),
		MinPrepareUS:  s.MinPrepare.Microseconds(),
		MaxPrepareUS:  s.MaxPrepare.Microseconds(),
		Frames:        s.Frames,
		FPS:           s.FPS,
		PreloadPct:    s.PhasePct[PhasePreload],
		BackgroundPct: s.PhasePct[PhaseBackground],
		LayersPct:     s.PhasePct[PhaseLayers],
		SpritesPct:    s.PhasePct[PhaseSprites],
	}
}
