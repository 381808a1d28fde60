package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/fdtd1d/internal/metrics"
)

// Registry maps metric names to constructors.
type Registry struct {
	metrics map[string]func() Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() Metric),
	}

	r.metrics["energy"] = func() Metric { return metrics.NewEnergy() }
	r.metrics["peak_energy"] = func() Metric { return metrics.NewPeakEnergy() }
	r.metrics["residual_energy"] = func() Metric { return metrics.NewResidualEnergy() }
	r.metrics["max_field"] = func() Metric { return metrics.NewMaxField() }
	r.metrics["stability"] = func() Metric { return metrics.NewStability(1e6) }
	r.metrics["source_effort"] = func() Metric { return metrics.NewSourceEffort() }

	return r
}

func (r *Registry) GetMetric(name string) (Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns one instance of every registered metric.
func (r *Registry) DefaultMetrics() []Metric {
	out := make([]Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
