package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/aquarium/config"
	"github.com/pthm-cable/aquarium/scene"
)

// OutputManager writes scene statistics and artefacts into a directory.
type OutputManager struct {
	dir            string
	scenesFile     *os.File
	placementsFile *os.File
	perfFile       *os.File

	// Track if headers have been written
	scenesHeaderWritten     bool
	placementsHeaderWritten bool
	perfHeaderWritten       bool
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled); a nil manager ignores writes.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  **os.File
	}{
		{"scenes.csv", &om.scenesFile},
		{"placements.csv", &om.placementsFile},
		{"perf.csv", &om.perfFile},
	}
	for _, f := range files {
		fh, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.dst = fh
	}
	return om, nil
}

// writeCSV appends records to f, emitting the header on the first write.
func writeCSV[T any](f *os.File, headerWritten *bool, records []T) error {
	if len(records) == 0 {
		return nil
	}
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteConfig saves the effective configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil || cfg == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteScene appends a row to scenes.csv.
func (om *OutputManager) WriteScene(stats SceneStats) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.scenesFile, &om.scenesHeaderWritten, []SceneStats{stats}); err != nil {
		return fmt.Errorf("writing scene stats: %w", err)
	}
	return nil
}

// WritePlacements appends rows to placements.csv.
func (om *OutputManager) WritePlacements(rows []PlacementRow) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.placementsFile, &om.placementsHeaderWritten, rows); err != nil {
		return fmt.Errorf("writing placements: %w", err)
	}
	return nil
}

// WritePerf appends a performance row to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, seed string) error {
	if om == nil {
		return nil
	}
	if err := writeCSV(om.perfFile, &om.perfHeaderWritten, []PerfStatsCSV{stats.ToCSV(seed)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteSceneJSON saves sc as scene.json, replacing any previous scene.
func (om *OutputManager) WriteSceneJSON(sc *scene.Scene) error {
	if om == nil || sc == nil {
		return nil
	}
	path := filepath.Join(om.dir, "scene.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scene.json: %w", err)
	}
	if err := scene.Encode(f, sc); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing scene.json: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var errs []error
	for _, f := range []*os.File{om.scenesFile, om.placementsFile, om.perfFile} {
		if f != nil {
			errs = append(errs, f.Close())
		}
	}
	return errors.Join(errs...)
}
