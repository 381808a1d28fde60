package config

import "sort"

var Presets = map[string]*Config{
	// gaussian pulse leaving through Mur walls
	"pulse": {
		Dx: 0.01, Cells: 200, SourcePosition: 100, Courant: 0.5,
		SourceField: "electric", SourceType: "soft", SourceWave: "gaussian", Boundary: "mur",
		Gaussian: GaussianConfig{Delay: 30, Width: 10},
		Steps: 400, SnapshotEvery: 10, Probe: 20,
	},
	// the same pulse bouncing between bare walls
	"reflect": {
		Dx: 0.01, Cells: 200, SourcePosition: 100, Courant: 0.5,
		SourceField: "electric", SourceType: "soft", SourceWave: "gaussian", Boundary: "bare",
		Gaussian: GaussianConfig{Delay: 30, Width: 10},
		Steps: 800, SnapshotEvery: 10, Probe: 20,
	},
	"cw": {
		Dx: 0.01, Cells: 200, SourcePosition: 50, Courant: 0.5,
		SourceField: "electric", SourceType: "soft", SourceWave: "sine", Boundary: "mur",
		Sine: SineConfig{Magnitude: 1},
		Steps: 1024, SnapshotEvery: 16, Probe: 150,
	},
	"hard": {
		Dx: 0.01, Cells: 200, SourcePosition: 20, Courant: 0.5,
		SourceField: "electric", SourceType: "hard", SourceWave: "gaussian", Boundary: "mur",
		Gaussian: GaussianConfig{Delay: 30, Width: 10},
		Steps: 500, SnapshotEvery: 10, Probe: 150,
	},
	"magnetic": {
		Dx: 0.01, Cells: 200, SourcePosition: 100, Courant: 0.5,
		SourceField: "magnetic", SourceType: "soft", SourceWave: "gaussian", Boundary: "mur",
		Gaussian: GaussianConfig{Delay: 30, Width: 10},
		Steps: 400, SnapshotEvery: 10, Probe: 20,
	},
}

// GetPreset returns a copy of the named preset with defaults filled in.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	if cfg.Impedance == 0 {
		cfg.Impedance = DefaultConfig().Impedance
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
