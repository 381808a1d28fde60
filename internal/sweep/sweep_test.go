package sweep

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/fdtd1d/internal/config"
	"github.com/san-kum/fdtd1d/internal/experiment"
	"github.com/san-kum/fdtd1d/internal/fdtd"
)

func builder(p Point) (experiment.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Cells = 100
	cfg.SourcePosition = 50
	cfg.Steps = 60
	for name, v := range p {
		if err := cfg.Set(name, v); err != nil {
			return experiment.Config{}, err
		}
	}
	return cfg.ExperimentConfig()
}

func TestNewGrid_Invalid(t *testing.T) {
	if _, err := NewGrid([]string{"pos"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGrid(nil, nil); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
	if _, err := NewGrid([]string{"pos"}, [][]float64{{}}); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("expected ErrEmptyGrid, got %v", err)
	}
}

func TestGridPoints(t *testing.T) {
	g, err := NewGrid([]string{"pos", "width"}, [][]float64{{20, 50}, {5, 10, 15}})
	if err != nil {
		t.Fatal(err)
	}
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["pos"] != 20 || points[0]["width"] != 5 {
		t.Errorf("first point = %v", points[0])
	}
	if points[1]["pos"] != 20 || points[1]["width"] != 10 {
		t.Errorf("second point = %v", points[1])
	}
	if points[5]["pos"] != 50 || points[5]["width"] != 15 {
		t.Errorf("last point = %v", points[5])
	}
}

func TestGridRun(t *testing.T) {
	g, _ := NewGrid([]string{"pos"}, [][]float64{{0, 30, 50, 70}})

	outcomes, err := g.Run(context.Background(), builder, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(outcomes))
	}

	if !errors.Is(outcomes[0].Err, fdtd.ErrInvalidSourcePosition) {
		t.Errorf("pos=0 should fail with ErrInvalidSourcePosition, got %v", outcomes[0].Err)
	}
	for i, o := range outcomes[1:] {
		if o.Err != nil {
			t.Errorf("outcome %d: %v", i+1, o.Err)
			continue
		}
		if o.Steps != 60 {
			t.Errorf("outcome %d: expected 60 steps, got %d", i+1, o.Steps)
		}
		if _, ok := o.Metrics["energy"]; !ok {
			t.Errorf("outcome %d missing energy metric", i+1)
		}
	}
	if outcomes[2].Params["pos"] != 50 {
		t.Errorf("outcomes out of order: %v", outcomes[2].Params)
	}
}

func TestGridRunCancelled(t *testing.T) {
	g, _ := NewGrid([]string{"pos"}, [][]float64{{30, 50}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Run(ctx, builder, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGridRunCancelledMarksEveryPoint(t *testing.T) {
	g, _ := NewGrid([]string{"pos"}, [][]float64{{20, 30, 40, 50, 60, 70}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := g.Run(ctx, builder, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(outcomes) != 6 {
		t.Fatalf("expected 6 outcomes, got %d", len(outcomes))
	}
	for i, o := range outcomes {
		if o.Params == nil {
			t.Errorf("outcome %d has no params", i)
		}
		if !errors.Is(o.Err, context.Canceled) {
			t.Errorf("outcome %d: expected context.Canceled, got %v", i, o.Err)
		}
	}
	if _, ok := Best(outcomes, "energy"); ok {
		t.Error("cancelled points should not be ranked")
	}
}

func TestBest(t *testing.T) {
	outcomes := []Outcome{
		{Params: Point{"pos": 1}, Err: errors.New("boom")},
		{Params: Point{"pos": 2}, Metrics: map[string]float64{"residual_energy": 0.5}},
		{Params: Point{"pos": 3}, Metrics: map[string]float64{"residual_energy": 0.1}},
		{Params: Point{"pos": 4}, Metrics: map[string]float64{"energy": 0}},
	}
	best, ok := Best(outcomes, "residual_energy")
	if !ok {
		t.Fatal("expected a best outcome")
	}
	if best.Params["pos"] != 3 {
		t.Errorf("expected pos 3, got %v", best.Params)
	}

	if _, ok := Best(outcomes[:1], "residual_energy"); ok {
		t.Error("failed outcomes should not be ranked")
	}
}
