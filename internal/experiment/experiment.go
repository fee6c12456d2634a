// Package experiment runs a complete scenario: the propulsion model produces a
// thrust profile which drives the flight integrator to apogee.
package experiment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/aquasim/internal/aero"
	"github.com/san-kum/aquasim/internal/airframe"
	"github.com/san-kum/aquasim/internal/config"
	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
)

type Result struct {
	Scenario *config.Config     `json:"scenario"`
	Profile  *propulsion.Profile `json:"profile"`
	Flight   *flight.Result      `json:"flight"`
	Tank     airframe.Stats      `json:"tank"`
}

type Option func(*Experiment)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Experiment) { e.log = log }
}

// WithDragTable overrides the table named by the scenario.
func WithDragTable(t *aero.DragTable) Option {
	return func(e *Experiment) { e.table = t }
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) { e.registry = r }
}

type Experiment struct {
	cfg      *config.Config
	table    *aero.DragTable
	registry *Registry
	log      zerolog.Logger
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	e := &Experiment{
		cfg: cfg,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.registry == nil {
		e.registry = NewRegistry()
	}
	return e
}

// Run is shorthand for New(cfg, opts...).Run(ctx).
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Result, error) {
	return New(cfg, opts...).Run(ctx)
}

func (e *Experiment) dragTable() (*aero.DragTable, error) {
	if e.table != nil {
		return e.table, nil
	}
	if e.cfg.DragTable == "" {
		return aero.Default(), nil
	}
	return aero.LoadFile(e.cfg.DragTable)
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.cfg == nil {
		return nil, fmt.Errorf("experiment: no scenario")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", e.cfg.Name, err)
	}

	table, err := e.dragTable()
	if err != nil {
		return nil, err
	}

	log := e.log.With().Str("scenario", e.cfg.Name).Logger()

	profile, err := propulsion.New(e.cfg.Propulsion, e.cfg.Constants, e.cfg.Limits).Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("propulsion: %w", err)
	}
	if i := profile.TransitionIndex; i > 0 {
		s := profile.Samples[i-1]
		log.Debug().Float64("t", s.Time).Float64("pressure", s.Pressure).Msg("water exhausted")
	}
	log.Debug().
		Float64("burn_time", profile.BurnTime()).
		Int("samples", profile.Len()).
		Msg("propellant exhausted")

	integ := flight.New(profile, table, e.cfg.ResolvedRocket(), e.cfg.Flight)
	for _, m := range e.registry.DefaultMetrics() {
		integ.AddMetric(m)
	}

	fr, err := integ.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("flight: %w", err)
	}
	if fr.Burnout != nil {
		log.Debug().Float64("t", fr.Burnout.Time).Float64("y", fr.Burnout.Y).Msg("burnout")
	}
	log.Debug().Float64("t", fr.Apogee.Time).Float64("y", fr.Apogee.Y).Msg("apogee")

	tank, err := airframe.Analyze(e.cfg.Tank, e.cfg.Propulsion.AirPressure, profile.TankVolume(), e.cfg.FrontalArea())
	if err != nil {
		return nil, fmt.Errorf("airframe: %w", err)
	}

	log.Info().
		Float64("max_altitude", fr.Metrics["max_altitude"]).
		Float64("burn_time", profile.BurnTime()).
		Int("steps", fr.Steps).
		Msg("scenario complete")

	return &Result{
		Scenario: e.cfg,
		Profile:  profile,
		Flight:   fr,
		Tank:     tank,
	}, nil
}
