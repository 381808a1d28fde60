// Package sweep runs a grid of independent experiments and ranks them by a
// metric. Every point owns its simulator; points run concurrently but each
// simulator is only ever stepped by one goroutine.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/fdtd1d/internal/experiment"
)

var ErrEmptyGrid = errors.New("sweep: empty grid")

// Point assigns one value per swept parameter.
type Point map[string]float64

func (p Point) clone() Point {
	c := make(Point, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Builder turns a grid point into an experiment configuration.
type Builder func(p Point) (experiment.Config, error)

type Outcome struct {
	Params  Point
	Metrics map[string]float64
	Steps   int
	Err     error
}

type Grid struct {
	names  []string
	ranges [][]float64
}

func NewGrid(names []string, ranges [][]float64) (*Grid, error) {
	if len(names) != len(ranges) {
		return nil, fmt.Errorf("sweep: %d parameters but %d ranges", len(names), len(ranges))
	}
	if len(names) == 0 {
		return nil, ErrEmptyGrid
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", ErrEmptyGrid, names[i])
		}
	}
	return &Grid{names: names, ranges: ranges}, nil
}

// Points enumerates the cartesian product, last parameter varying fastest.
func (g *Grid) Points() []Point {
	var out []Point
	g.collect(0, Point{}, &out)
	return out
}

func (g *Grid) collect(depth int, current Point, out *[]Point) {
	if depth == len(g.names) {
		*out = append(*out, current)
		return
	}
	for _, v := range g.ranges[depth] {
		next := current.clone()
		next[g.names[depth]] = v
		g.collect(depth+1, next, out)
	}
}

// Run executes every point with the default metric set. Outcomes keep the
// order of Points. A failing point records its error and does not stop the
// others; only cancellation of ctx is returned as an error, and points never
// started then carry ctx.Err().
func (g *Grid) Run(ctx context.Context, build Builder, workers int) ([]Outcome, error) {
	points := g.Points()
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(points))

	outcomes := make([]Outcome, len(points))
	jobs := make(chan int)
	registry := experiment.NewRegistry()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = runPoint(ctx, registry, build, points[idx])
			}
		}()
	}

	sent := 0
feed:
	for ; sent < len(points); sent++ {
		select {
		case jobs <- sent:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := sent; i < len(points); i++ {
			outcomes[i] = Outcome{Params: points[i], Err: err}
		}
		return outcomes, err
	}
	return outcomes, nil
}

func runPoint(ctx context.Context, registry *experiment.Registry, build Builder, p Point) Outcome {
	out := Outcome{Params: p}

	cfg, err := build(p)
	if err != nil {
		out.Err = err
		return out
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		out.Err = err
		return out
	}
	for _, m := range registry.DefaultMetrics() {
		exp.AddMetric(m)
	}

	result, err := exp.Run(ctx)
	if result != nil {
		out.Metrics = result.Metrics
		out.Steps = result.StepsTaken
	}
	out.Err = err
	return out
}

// Best returns the successful outcome with the smallest value of metric.
func Best(outcomes []Outcome, metric string) (Outcome, bool) {
	best := math.Inf(1)
	idx := -1
	for i, o := range outcomes {
		if o.Err != nil {
			continue
		}
		v, ok := o.Metrics[metric]
		if !ok || math.IsNaN(v) {
			continue
		}
		if v < best {
			best = v
			idx = i
		}
	}
	if idx < 0 {
		return Outcome{}, false
	}
	return outcomes[idx], true
}
