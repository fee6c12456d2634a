package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/metrics"
)

// Registry maps metric names to constructors so runs and sweeps can select
// metrics by name.
type Registry struct {
	metrics map[string]func() flight.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() flight.Metric),
	}

	r.metrics["max_altitude"] = func() flight.Metric { return metrics.NewMaxAltitude() }
	r.metrics["max_velocity"] = func() flight.Metric { return metrics.NewMaxVelocity() }
	r.metrics["max_mach"] = func() flight.Metric { return metrics.NewMaxMach() }
	r.metrics["peak_acceleration"] = func() flight.Metric { return metrics.NewPeakAcceleration() }
	r.metrics["peak_drag"] = func() flight.Metric { return metrics.NewPeakDrag() }
	r.metrics["total_impulse"] = func() flight.Metric { return metrics.NewImpulse() }

	return r
}

func (r *Registry) GetMetric(name string) (flight.Metric, error) {
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

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []flight.Metric {
	out := make([]flight.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
