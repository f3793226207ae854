package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// OutputManager writes per-run telemetry to a directory: particles.csv
// (one row per final particle) and summary.json (the run aggregate). A nil
// *OutputManager is valid and every method on it is a no-op, so callers can
// construct one unconditionally and simply skip NewOutputManager when
// telemetry is disabled.
type OutputManager struct {
	dir              string
	particlesFile    *os.File
	particlesWritten bool
}

// NewOutputManager creates dir if needed and opens particles.csv for
// writing. Returns (nil, nil) if dir is empty, disabling telemetry output.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "particles.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create particles.csv: %w", err)
	}
	return &OutputManager{dir: dir, particlesFile: f}, nil
}

// WriteParticles appends records to particles.csv, writing the header only
// on the first call.
func (om *OutputManager) WriteParticles(records []ParticleRecord) error {
	if om == nil {
		return nil
	}
	if !om.particlesWritten {
		if err := gocsv.Marshal(records, om.particlesFile); err != nil {
			return fmt.Errorf("telemetry: write particles.csv: %w", err)
		}
		om.particlesWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.particlesFile); err != nil {
		return fmt.Errorf("telemetry: write particles.csv: %w", err)
	}
	return nil
}

// WriteSummary writes summary.json, overwriting any previous contents.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("telemetry: marshal summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, "summary.json"), data, 0o644); err != nil {
		return fmt.Errorf("telemetry: write summary.json: %w", err)
	}
	return nil
}

// Dir returns the output directory, or "" if telemetry is disabled.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes particles.csv.
func (om *OutputManager) Close() error {
	if om == nil || om.particlesFile == nil {
		return nil
	}
	return om.particlesFile.Close()
}
