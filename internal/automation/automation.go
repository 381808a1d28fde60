package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fdtd1d/internal/config"
	"github.com/san-kum/fdtd1d/internal/experiment"
	"github.com/san-kum/fdtd1d/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`

	dir string
}

// ScenarioStep is a single run. The configuration is built from the preset
// (or defaults), then the config file, then the kind overrides and params.
type ScenarioStep struct {
	Preset      string             `yaml:"preset"`
	ConfigFile  string             `yaml:"config"`
	SourceField string             `yaml:"source_field"`
	SourceType  string             `yaml:"source_type"`
	SourceWave  string             `yaml:"source_wave"`
	Boundary    string             `yaml:"boundary"`
	Params      map[string]float64 `yaml:"params"`
	SaveAs      string             `yaml:"save_as"`
}

type StepResult struct {
	Name   string
	RunID  string
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file. Relative config paths in
// steps resolve against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	scenario.dir = filepath.Dir(path)

	return &scenario, nil
}

// Config resolves the configuration of one step.
func (s *Scenario) Config(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		cfg = config.GetPreset(step.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if step.ConfigFile != "" {
		path := step.ConfigFile
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if step.SourceField != "" {
		cfg.SourceField = step.SourceField
	}
	if step.SourceType != "" {
		cfg.SourceType = step.SourceType
	}
	if step.SourceWave != "" {
		cfg.SourceWave = step.SourceWave
	}
	if step.Boundary != "" {
		cfg.Boundary = step.Boundary
	}
	for k, v := range step.Params {
		if err := cfg.Set(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (step ScenarioStep) name(i int) string {
	switch {
	case step.SaveAs != "":
		return step.SaveAs
	case step.Preset != "":
		return step.Preset
	default:
		return fmt.Sprintf("step%d", i+1)
	}
}

// RunScenario executes all steps in order, saving each run when store is
// non-nil. Progress lines go to out.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, out io.Writer) ([]StepResult, error) {
	registry := experiment.NewRegistry()
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.name(i)
		fmt.Fprintf(out, "running step %d/%d: %s\n", i+1, len(scenario.Steps), name)

		cfg, err := scenario.Config(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		expCfg, err := cfg.ExperimentConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.New(expCfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		for _, m := range registry.DefaultMetrics() {
			exp.AddMetric(m)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Result: result}
		if store != nil {
			if sr.RunID, err = store.Save(name, expCfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}
