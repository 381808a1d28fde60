package automation

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/fdtd1d/internal/config"
	"github.com/san-kum/fdtd1d/internal/fdtd"
	"github.com/san-kum/fdtd1d/internal/storage"
)

const scenarioYAML = `
name: walls
description: the same pulse against both boundaries
steps:
  - preset: pulse
    params: {cells: 100, pos: 50, steps: 200, probe: 10}
    save_as: absorbing
  - preset: pulse
    boundary: bare
    params: {cells: 100, pos: 50, steps: 200, probe: 10}
    save_as: reflecting
  - config: small.yaml
`

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	small := config.DefaultConfig()
	small.Cells = 60
	small.SourcePosition = 30
	small.Steps = 40
	small.Probe = 5
	if err := config.Save(filepath.Join(dir, "small.yaml"), small); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "walls" || len(s.Steps) != 3 {
		t.Fatalf("unexpected scenario: %+v", s)
	}

	cfg, err := s.Config(s.Steps[1])
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Boundary != "bare" || cfg.Cells != 100 {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	cfg, err = s.Config(s.Steps[2])
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cells != 60 {
		t.Errorf("expected 60 cells from config file, got %d", cfg.Cells)
	}
}

func TestLoadScenario_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	os.WriteFile(path, []byte("name: empty\n"), 0644)
	if _, err := LoadScenario(path); err == nil {
		t.Error("expected error for scenario without steps")
	}
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), s, store, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Name != "absorbing" || results[2].Name != "step3" {
		t.Errorf("unexpected names: %s, %s", results[0].Name, results[2].Name)
	}

	absorbed := results[0].Result.Metrics["energy"]
	reflected := results[1].Result.Metrics["energy"]
	if !(reflected > absorbed) {
		t.Errorf("bare walls should keep more energy: mur %g, bare %g", absorbed, reflected)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("expected 3 stored runs, got %d", len(runs))
	}
}

func TestRunScenario_StepError(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{
		{Params: map[string]float64{"cells": 60, "pos": 30, "steps": 10, "probe": 5}},
		{Params: map[string]float64{"cells": 60, "pos": 0, "steps": 10, "probe": 5}},
	}}

	results, err := RunScenario(context.Background(), s, nil, io.Discard)
	if !errors.Is(err, fdtd.ErrInvalidSourcePosition) {
		t.Errorf("expected ErrInvalidSourcePosition, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to complete, got %d results", len(results))
	}
}
