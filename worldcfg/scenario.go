package worldcfg

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Scenario is the on-disk form of a run: the world parameters plus an
// optional inline particle list and run options. The field names match a
// YAML scenario file, not the stdin text protocol (see package ioformat
// for that).
type Scenario struct {
	World     World            `yaml:"world"`
	Command   string           `yaml:"command"`
	Workers   int              `yaml:"workers"`
	Particles []ScenarioRow    `yaml:"particles"`
	Telemetry *TelemetryOption `yaml:"telemetry,omitempty"`
}

// ScenarioRow is one explicitly-specified particle in a scenario file.
type ScenarioRow struct {
	Index int     `yaml:"index"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
}

// TelemetryOption configures optional run telemetry export.
type TelemetryOption struct {
	Dir string `yaml:"dir"`
}

// FromYAML reads a scenario file. It follows the same discipline the
// reinforcement.FromYaml loader in the teacher's companion repo documents
// for itself: one viper.New() per call, no package-level viper.Get*, since
// viper's internal state isn't friendly to being shared across independent
// config loads.
func FromYAML(path string) (*Scenario, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("worldcfg: reading scenario %q: %w", path, err)
	}

	raw := map[string]interface{}{}
	if err := vp.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("worldcfg: decoding scenario %q: %w", path, err)
	}

	// Re-marshal through yaml.v3 rather than viper's mapstructure decoder so
	// that float/int distinctions in the scenario match Go's yaml tags
	// exactly -- mapstructure is looser about numeric kinds than we want
	// here.
	buf, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("worldcfg: re-encoding scenario %q: %w", path, err)
	}

	sc := &Scenario{Workers: 1}
	if err := yaml.Unmarshal(buf, sc); err != nil {
		return nil, fmt.Errorf("worldcfg: parsing scenario %q: %w", path, err)
	}
	if err := sc.World.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}
