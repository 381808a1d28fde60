package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

func testConfig() Config {
	return Config{
		Sim:           fdtd.DefaultConfig(0.01, 100, 50),
		Steps:         100,
		SnapshotEvery: 25,
		ProbeIndex:    20,
		ValidateState: true,
	}
}

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string            { return "count" }
func (c *countingMetric) Observe(s fdtd.Snapshot) { c.count++ }
func (c *countingMetric) Value() float64          { return float64(c.count) }
func (c *countingMetric) Reset()                  { c.count = 0 }

func TestExperimentRun(t *testing.T) {
	exp, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	metric := &countingMetric{}
	exp.AddMetric(metric)

	steps := 0
	exp.AddObserver(ObserverFunc(func(s fdtd.Snapshot) { steps = s.Step }))

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 100 {
		t.Errorf("expected 100 steps, got %d", result.StepsTaken)
	}
	if steps != 100 {
		t.Errorf("observer saw last step %d", steps)
	}
	if result.Metrics["count"] != 100 {
		t.Errorf("metric observed %g snapshots", result.Metrics["count"])
	}

	// step 0 plus every 25th step
	if len(result.Snapshots) != 5 {
		t.Fatalf("expected 5 snapshots, got %d", len(result.Snapshots))
	}
	for i, snap := range result.Snapshots {
		if snap.Step != i*25 {
			t.Errorf("snapshot %d at step %d", i, snap.Step)
		}
	}

	if len(result.Probe) != 100 || len(result.Source) != 100 || len(result.ProbeSteps) != 100 {
		t.Errorf("series lengths %d/%d/%d", len(result.Probe), len(result.Source), len(result.ProbeSteps))
	}
	if result.ProbeSteps[0] != 1 || result.ProbeSteps[99] != 100 {
		t.Errorf("probe steps run %d..%d", result.ProbeSteps[0], result.ProbeSteps[99])
	}
	if exp.Simulator().TimeStep() != 100 {
		t.Errorf("simulator at step %d", exp.Simulator().TimeStep())
	}
}

func TestExperimentFinalSnapshot(t *testing.T) {
	cfg := testConfig()
	cfg.Steps = 30
	cfg.SnapshotEvery = 0

	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Snapshots) != 2 || result.Snapshots[1].Step != 30 {
		t.Errorf("expected initial and final snapshots, got %d", len(result.Snapshots))
	}
}

func TestExperimentCancel(t *testing.T) {
	exp, err := New(testConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	exp.AddObserver(ObserverFunc(func(s fdtd.Snapshot) {
		if s.Step == 10 {
			cancel()
		}
	}))

	result, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps before cancel, got %d", result.StepsTaken)
	}
}

func TestExperimentDivergence(t *testing.T) {
	cfg := testConfig()
	cfg.Sim.Boundary = fdtd.BoundaryBare
	cfg.Sim.Courant = 1.5
	cfg.Steps = 5000

	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	result, err := exp.Run(context.Background())
	if !errors.Is(err, fdtd.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}

	var stepErr *fdtd.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *fdtd.StepError, got %T", err)
	}
	if result.StepsTaken >= cfg.Steps {
		t.Errorf("run did not stop early: %d steps", result.StepsTaken)
	}
	if stepErr.Step != result.StepsTaken {
		t.Errorf("error at step %d, run stopped at %d", stepErr.Step, result.StepsTaken)
	}

	last := result.Snapshots[len(result.Snapshots)-1]
	if last.Step != result.StepsTaken {
		t.Errorf("final snapshot at step %d, want %d", last.Step, result.StepsTaken)
	}
	if last.IsValid() {
		t.Error("final snapshot should hold the diverged fields")
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero steps", func(c *Config) { c.Steps = 0 }, nil},
		{"negative snapshot interval", func(c *Config) { c.SnapshotEvery = -1 }, nil},
		{"probe past end", func(c *Config) { c.ProbeIndex = 100 }, nil},
		{"source on boundary", func(c *Config) { c.Sim.SourcePosition = 0 }, fdtd.ErrInvalidSourcePosition},
		{"mur with courant 0.7", func(c *Config) { c.Sim.Courant = 0.7 }, fdtd.ErrInvalidBoundaryConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.ListMetrics()
	if len(names) != 6 {
		t.Errorf("expected 6 metrics, got %v", names)
	}
	if len(r.DefaultMetrics()) != len(names) {
		t.Error("DefaultMetrics does not cover the registry")
	}

	m, err := r.GetMetric("residual_energy")
	if err != nil || m.Name() != "residual_energy" {
		t.Errorf("GetMetric: %v, %v", m, err)
	}
	if _, err := r.GetMetric("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
