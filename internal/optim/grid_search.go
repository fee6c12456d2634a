// Package optim sweeps scenario parameters over a grid and ranks the runs by
// a flight metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/aquasim/internal/config"
	"github.com/san-kum/aquasim/internal/experiment"
	"github.com/san-kum/aquasim/internal/sim"
)

// Setters maps sweepable parameter names onto scenario fields.
var Setters = map[string]func(*config.Config, float64){
	"air_pressure":    func(c *config.Config, v float64) { c.Propulsion.AirPressure = v },
	"air_volume":      func(c *config.Config, v float64) { c.Propulsion.AirVolume = v },
	"water_volume":    func(c *config.Config, v float64) { c.Propulsion.WaterVolume = v },
	"nozzle_diameter": func(c *config.Config, v float64) { c.Propulsion.NozzleDiameter = v },
	"structural_mass": func(c *config.Config, v float64) { c.Rocket.StructuralMass = v },
	"payload_mass":    func(c *config.Config, v float64) { c.Rocket.PayloadMass = v },
	"frontal_area":    func(c *config.Config, v float64) { c.Rocket.FrontalArea = v },
}

func ListParams() []string {
	names := make([]string, 0, len(Setters))
	for name := range Setters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

type Trial struct {
	Params map[string]float64 `json:"params"`
	Value  float64            `json:"value"`
	Err    error              `json:"-"`
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
	opts       []experiment.Option
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// WithWorkers bounds the number of concurrent runs. Zero uses one per CPU.
func (g *GridSearch) WithWorkers(n int) *GridSearch {
	g.workers = n
	return g
}

func (g *GridSearch) WithOptions(opts ...experiment.Option) *GridSearch {
	g.opts = append(g.opts, opts...)
	return g
}

func (g *GridSearch) validate(metricName string) error {
	if len(g.paramNames) != len(g.ranges) {
		return fmt.Errorf("%d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for i, name := range g.paramNames {
		if _, ok := Setters[name]; !ok {
			return fmt.Errorf("unknown parameter: %s", name)
		}
		if len(g.ranges[i]) == 0 {
			return fmt.Errorf("empty range for %s", name)
		}
	}
	if _, err := experiment.NewRegistry().GetMetric(metricName); err != nil {
		return err
	}
	return nil
}

// Grid expands the parameter ranges into every combination.
func (g *GridSearch) Grid() []map[string]float64 {
	grid := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(grid)*len(g.ranges[i]))
		for _, base := range grid {
			for _, v := range g.ranges[i] {
				p := make(map[string]float64, len(base)+1)
				for k, bv := range base {
					p[k] = bv
				}
				p[name] = v
				next = append(next, p)
			}
		}
		grid = next
	}
	return grid
}

// Search runs base with every grid combination applied and returns the trials
// in grid order together with the best successful one. Failed runs are kept
// with their error and never selected.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string, maximize bool) ([]Trial, *Trial, error) {
	if err := g.validate(metricName); err != nil {
		return nil, nil, err
	}

	grid := g.Grid()
	trials := make([]Trial, len(grid))

	err := sim.Parallel(ctx, len(grid), g.workers, func(ctx context.Context, idx int) error {
		cfg := base.Clone()
		for name, v := range grid[idx] {
			Setters[name](cfg, v)
		}
		trials[idx].Params = grid[idx]

		res, err := experiment.Run(ctx, cfg, g.opts...)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			trials[idx].Err = err
			trials[idx].Value = math.NaN()
			return nil
		}
		trials[idx].Value = res.Flight.Metrics[metricName]
		return nil
	})
	if err != nil {
		return trials, nil, err
	}

	var best *Trial
	for i := range trials {
		t := &trials[i]
		if t.Err != nil {
			continue
		}
		if best == nil || (maximize && t.Value > best.Value) || (!maximize && t.Value < best.Value) {
			best = t
		}
	}
	if best == nil {
		return trials, nil, fmt.Errorf("no successful runs in %d trials", len(trials))
	}

	return trials, best, nil
}
