package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdtd1d/internal/experiment"
	"github.com/san-kum/fdtd1d/internal/fdtd"
)

const (
	DefaultDx             = 0.01
	DefaultCells          = 200
	DefaultSourcePosition = 100
	DefaultSteps          = 400
	DefaultSnapshotEvery  = 10
	DefaultProbe          = 20
)

type Config struct {
	Dx             float64        `yaml:"dx"`
	Cells          int            `yaml:"cells"`
	SourcePosition int            `yaml:"source_position"`
	Courant        float64        `yaml:"courant"`
	SourceField    string         `yaml:"source_field"`
	SourceType     string         `yaml:"source_type"`
	SourceWave     string         `yaml:"source_wave"`
	Boundary       string         `yaml:"boundary"`
	Impedance      float64        `yaml:"impedance"`
	Gaussian       GaussianConfig `yaml:"gaussian"`
	Sine           SineConfig     `yaml:"sine"`
	Steps          int            `yaml:"steps"`
	SnapshotEvery  int            `yaml:"snapshot_every"`
	Probe          int            `yaml:"probe"`
}

// GaussianConfig with Explicit set keeps a zero Delay instead of defaulting it.
type GaussianConfig struct {
	Delay    float64 `yaml:"delay"`
	Width    float64 `yaml:"width"`
	Explicit bool    `yaml:"explicit,omitempty"`
}

// SineConfig leaves Omega at 0 to select 0.3/dt unless Explicit is set.
type SineConfig struct {
	Omega     float64 `yaml:"omega"`
	Magnitude float64 `yaml:"magnitude"`
	Explicit  bool    `yaml:"explicit,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Dx:             DefaultDx,
		Cells:          DefaultCells,
		SourcePosition: DefaultSourcePosition,
		Courant:        fdtd.MurCourant,
		SourceField:    fdtd.FieldElectric.String(),
		SourceType:     fdtd.SourceSoft.String(),
		SourceWave:     fdtd.WaveGaussian.String(),
		Boundary:       fdtd.BoundaryMur.String(),
		Impedance:      fdtd.VacuumImpedance,
		Gaussian: GaussianConfig{
			Delay: fdtd.DefaultGaussianDelay,
			Width: fdtd.DefaultGaussianWidth,
		},
		Sine: SineConfig{
			Magnitude: fdtd.DefaultSineMagnitude,
		},
		Steps:         DefaultSteps,
		SnapshotEvery: DefaultSnapshotEvery,
		Probe:         DefaultProbe,
	}
}

// Load reads a YAML file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig resolves the kind names into a simulator configuration.
func (c *Config) SimConfig() (fdtd.Config, error) {
	field, err := fdtd.ParseField(c.SourceField)
	if err != nil {
		return fdtd.Config{}, err
	}
	typ, err := fdtd.ParseSourceType(c.SourceType)
	if err != nil {
		return fdtd.Config{}, err
	}
	wave, err := fdtd.ParseWave(c.SourceWave)
	if err != nil {
		return fdtd.Config{}, err
	}
	boundary, err := fdtd.ParseBoundary(c.Boundary)
	if err != nil {
		return fdtd.Config{}, err
	}

	return fdtd.Config{
		Dx:             c.Dx,
		N:              c.Cells,
		SourcePosition: c.SourcePosition,
		Courant:        c.Courant,
		SourceField:    field,
		SourceType:     typ,
		SourceWave:     wave,
		Boundary:       boundary,
		Impedance:      c.Impedance,
		Gaussian:       fdtd.GaussianParams{Delay: c.Gaussian.Delay, Width: c.Gaussian.Width, Explicit: c.Gaussian.Explicit},
		Sine:           fdtd.SineParams{Omega: c.Sine.Omega, Magnitude: c.Sine.Magnitude, Explicit: c.Sine.Explicit},
	}, nil
}

func (c *Config) ExperimentConfig() (experiment.Config, error) {
	sim, err := c.SimConfig()
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{
		Sim:           sim,
		Steps:         c.Steps,
		SnapshotEvery: c.SnapshotEvery,
		ProbeIndex:    c.Probe,
		ValidateState: true,
	}, nil
}

// SweepParams lists the numeric keys accepted by Set.
var SweepParams = []string{"cells", "courant", "delay", "dx", "impedance", "magnitude", "omega", "pos", "probe", "steps", "width"}

// Set assigns one numeric parameter by name. Integer keys truncate v.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "dx":
		c.Dx = v
	case "cells":
		c.Cells = int(v)
	case "pos", "source_position":
		c.SourcePosition = int(v)
	case "courant":
		c.Courant = v
	case "impedance":
		c.Impedance = v
	case "delay":
		c.Gaussian.Delay = v
	case "width":
		c.Gaussian.Width = v
	case "omega":
		c.Sine.Omega = v
	case "magnitude":
		c.Sine.Magnitude = v
	case "steps":
		c.Steps = int(v)
	case "probe":
		c.Probe = int(v)
	default:
		return fmt.Errorf("unknown parameter: %s (available: %v)", name, SweepParams)
	}
	return nil
}
