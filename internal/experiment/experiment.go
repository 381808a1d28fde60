package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/fdtd1d/internal/fdtd"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(s fdtd.Snapshot)
	Value() float64
	Reset()
}

// Observer is notified after every iteration.
type Observer interface {
	OnStep(s fdtd.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s fdtd.Snapshot)

func (f ObserverFunc) OnStep(s fdtd.Snapshot) { f(s) }

type Config struct {
	Sim           fdtd.Config
	Steps         int
	SnapshotEvery int
	ProbeIndex    int
	ValidateState bool
}

type Result struct {
	Snapshots  []fdtd.Snapshot
	ProbeSteps []int
	Probe      []float64
	Source     []float64
	Metrics    map[string]float64
	StepsTaken int
	Dt         float64
	Dx         float64
	FieldNorm  float64
}

type Experiment struct {
	cfg       Config
	simulator *fdtd.Simulator
	metrics   []Metric
	observers []Observer
}

// New builds the simulator. Construction errors from fdtd are returned as is.
func New(cfg Config) (*Experiment, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	s, err := fdtd.New(cfg.Sim)
	if err != nil {
		return nil, err
	}
	return &Experiment{
		cfg:       cfg,
		simulator: s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func validate(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", cfg.Steps)
	}
	if cfg.SnapshotEvery < 0 {
		return fmt.Errorf("snapshot interval must not be negative, got %d", cfg.SnapshotEvery)
	}
	if cfg.ProbeIndex < 0 || cfg.ProbeIndex >= cfg.Sim.N {
		return fmt.Errorf("probe index %d outside [0:%d]", cfg.ProbeIndex, cfg.Sim.N-1)
	}
	return nil
}

func (e *Experiment) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Simulator returns the underlying simulator for read access.
func (e *Experiment) Simulator() *fdtd.Simulator {
	return e.simulator
}

// Run iterates the configured number of steps. On cancellation the partial
// result is returned together with ctx.Err().
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	s := e.simulator
	every := e.cfg.SnapshotEvery

	capacity := 2
	if every > 0 {
		capacity += e.cfg.Steps / every
	}
	result := &Result{
		Snapshots:  make([]fdtd.Snapshot, 0, capacity),
		ProbeSteps: make([]int, 0, e.cfg.Steps),
		Probe:      make([]float64, 0, e.cfg.Steps),
		Source:     make([]float64, 0, e.cfg.Steps),
		Metrics:    make(map[string]float64),
		Dt:         s.Dt(),
		Dx:         s.Dx(),
		FieldNorm:  s.FieldNormalisation(),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	result.Snapshots = append(result.Snapshots, s.Snapshot())

	var runErr error
	for i := 0; i < e.cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		s.Iterate()
		snap := s.Snapshot()
		result.StepsTaken++

		for _, m := range e.metrics {
			m.Observe(snap)
		}
		for _, obs := range e.observers {
			obs.OnStep(snap)
		}

		result.ProbeSteps = append(result.ProbeSteps, snap.Step)
		result.Probe = append(result.Probe, snap.Ez[e.cfg.ProbeIndex])
		result.Source = append(result.Source, snap.Source)

		if every > 0 && snap.Step%every == 0 {
			result.Snapshots = append(result.Snapshots, snap)
		}

		if e.cfg.ValidateState && !snap.IsValid() {
			runErr = &fdtd.StepError{Step: snap.Step, Time: snap.Time, Wrapped: fdtd.ErrUnstable}
			break
		}
	}

	if last := result.Snapshots[len(result.Snapshots)-1]; last.Step != s.TimeStep() {
		result.Snapshots = append(result.Snapshots, s.Snapshot())
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}
