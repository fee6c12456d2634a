// Package flight integrates vertical motion of the rocket from launch to
// apogee against a thrust profile and a drag table.
package flight

import (
	"context"

	"github.com/san-kum/aquasim/internal/aero"
	"github.com/san-kum/aquasim/internal/integrators"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/sim"
)

type Integrator struct {
	profile *propulsion.Profile
	table   *aero.DragTable
	rocket  Rocket
	cfg     Config
	stepper integrators.Stepper
	metrics []Metric
}

func New(profile *propulsion.Profile, table *aero.DragTable, rocket Rocket, cfg Config) *Integrator {
	return &Integrator{
		profile: profile,
		table:   table,
		rocket:  rocket,
		cfg:     cfg,
		stepper: integrators.NewTrapezoid(),
		metrics: make([]Metric, 0),
	}
}

func (f *Integrator) AddMetric(m Metric) { f.metrics = append(f.metrics, m) }

type rocketState struct {
	phase    Phase
	mass     float64
	burnTime float64
	prev     TrajectoryPoint
}

func (f *Integrator) Run(ctx context.Context) (*Result, error) {
	if err := f.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := f.rocket.Validate(); err != nil {
		return nil, err
	}

	for _, m := range f.metrics {
		m.Reset()
	}

	limits := sim.Limits{MaxSteps: f.cfg.MaxSteps}
	result := &Result{
		Points:  make([]TrajectoryPoint, 0, 1024),
		Metrics: make(map[string]float64),
	}

	s := rocketState{
		phase:    PhasePreLaunch,
		burnTime: f.profile.BurnTime(),
		prev:     TrajectoryPoint{Comment: CommentLaunch},
	}
	s.phase = PhasePowered

	for step := 1; s.phase != PhaseApogee; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := float64(step) * f.cfg.Dt
		if limits.Exceeded(step) {
			return result, &sim.SimError{
				Phase:   s.phase.String(),
				Step:    step,
				Time:    t,
				Wrapped: sim.ErrNonTerminating,
			}
		}

		p, burnout := f.next(&s, t)
		for _, m := range f.metrics {
			m.Observe(p)
		}
		result.Points = append(result.Points, p)
		result.Steps = step

		if burnout {
			bp := p
			result.Burnout = &bp
		}
		s.prev = p
	}

	result.Apogee = result.Last()
	for _, m := range f.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// next computes the point at time t from the previous point and updates the
// rocket phase. It reports whether this step crossed the burn time.
func (f *Integrator) next(s *rocketState, t float64) (TrajectoryPoint, bool) {
	prev := s.prev
	powered := s.phase == PhasePowered

	mach := prev.Velocity / f.cfg.SpeedOfSound
	s.mass = f.profile.FuelMass(t) + f.rocket.DryMass()

	cd := f.table.Lookup(mach, powered)
	aeroDrag := cd * 0.5 * f.cfg.AirDensity * f.rocket.FrontalArea * prev.Velocity * prev.Velocity
	drag := aeroDrag + f.cfg.GravityTerm

	var thrust float64
	if powered {
		thrust = f.profile.Thrust(t)
	}

	accel := (thrust - drag) / s.mass
	k := f.stepper.Step(integrators.Kinematics{
		Position:     prev.Y,
		Velocity:     prev.Velocity,
		Acceleration: prev.Acceleration,
	}, accel, f.cfg.Dt)

	p := TrajectoryPoint{
		Time:         t,
		X:            0,
		Y:            k.Position,
		Velocity:     k.Velocity,
		Acceleration: k.Acceleration,
		Drag:         aeroDrag,
		Thrust:       thrust,
		Mass:         s.mass,
		Mach:         mach,
	}

	burnout := t > s.burnTime && s.phase == PhasePowered
	if burnout {
		s.phase = PhaseCruising
		p.Comment = CommentBurnout
	}
	if p.Y < prev.Y {
		s.phase = PhaseApogee
		p.Comment = CommentApogee
	}

	return p, burnout
}
