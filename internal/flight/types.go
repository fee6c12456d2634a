package flight

import (
	"fmt"
	"math"

	"github.com/san-kum/aquasim/internal/sim"
)

const (
	CommentLaunch  = "Launch Point"
	CommentBurnout = "Burnout Reached"
	CommentApogee  = "Apogee"
)

type Phase int

const (
	PhasePreLaunch Phase = iota
	PhasePowered
	PhaseCruising
	PhaseApogee
)

func (p Phase) String() string {
	switch p {
	case PhasePreLaunch:
		return "pre-launch"
	case PhasePowered:
		return "powered"
	case PhaseCruising:
		return "cruising"
	case PhaseApogee:
		return "apogee"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TrajectoryPoint is the rocket state at the end of one integration step.
// Drag holds the aerodynamic component only.
type TrajectoryPoint struct {
	Time         float64 `json:"time"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Velocity     float64 `json:"velocity"`
	Acceleration float64 `json:"acceleration"`
	Drag         float64 `json:"drag"`
	Thrust       float64 `json:"thrust"`
	Mass         float64 `json:"mass"`
	Mach         float64 `json:"mach"`
	Comment      string  `json:"comment,omitempty"`
}

type Rocket struct {
	StructuralMass float64 `json:"structural_mass" yaml:"structural_mass"`
	PayloadMass    float64 `json:"payload_mass" yaml:"payload_mass"`
	FrontalArea    float64 `json:"frontal_area" yaml:"frontal_area"`
}

func (r Rocket) DryMass() float64 {
	return r.StructuralMass + r.PayloadMass
}

func (r Rocket) Validate() error {
	if r.StructuralMass < 0 {
		return fmt.Errorf("%w: structural mass must not be negative, got %g", sim.ErrInvalidConfig, r.StructuralMass)
	}
	if r.PayloadMass < 0 {
		return fmt.Errorf("%w: payload mass must not be negative, got %g", sim.ErrInvalidConfig, r.PayloadMass)
	}
	if !(r.DryMass() > 0) {
		return sim.Invalid("dry mass", r.DryMass())
	}
	if !(r.FrontalArea > 0) {
		return sim.Invalid("frontal area", r.FrontalArea)
	}
	return nil
}

type Config struct {
	Dt           float64 `json:"dt" yaml:"dt"`
	SpeedOfSound float64 `json:"speed_of_sound" yaml:"speed_of_sound"`
	AirDensity   float64 `json:"air_density" yaml:"air_density"`
	// GravityTerm is subtracted from the net force as-is, not scaled by mass.
	GravityTerm float64 `json:"gravity_term" yaml:"gravity_term"`
	MaxSteps    int     `json:"max_steps" yaml:"max_steps"`
}

func DefaultConfig() Config {
	return Config{
		Dt:           0.01,
		SpeedOfSound: 340.29,
		AirDensity:   1.225e-4,
		GravityTerm:  9.81,
		MaxSteps:     sim.DefaultMaxSteps,
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return sim.Invalid("dt", c.Dt)
	}
	if !(c.SpeedOfSound > 0) {
		return sim.Invalid("speed of sound", c.SpeedOfSound)
	}
	if c.AirDensity < 0 {
		return fmt.Errorf("%w: air density must not be negative, got %g", sim.ErrInvalidConfig, c.AirDensity)
	}
	return nil
}

// Metric accumulates a scalar over the points of a run.
type Metric interface {
	Name() string
	Observe(p TrajectoryPoint)
	Value() float64
	Reset()
}

type Result struct {
	Points  []TrajectoryPoint  `json:"points"`
	Burnout *TrajectoryPoint   `json:"burnout,omitempty"`
	Apogee  TrajectoryPoint    `json:"apogee"`
	Metrics map[string]float64 `json:"metrics"`
	Steps   int                `json:"steps"`
}

// Last returns the final point, which is the apogee point for a completed run.
func (r *Result) Last() TrajectoryPoint {
	if r == nil || len(r.Points) == 0 {
		return TrajectoryPoint{}
	}
	return r.Points[len(r.Points)-1]
}

// Highest returns the point with the greatest altitude.
func (r *Result) Highest() TrajectoryPoint {
	var best TrajectoryPoint
	for i, p := range r.Points {
		if i == 0 || p.Y > best.Y {
			best = p
		}
	}
	return best
}

func (r *Result) Series(field func(TrajectoryPoint) float64) []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = field(p)
	}
	return out
}

func Altitude(p TrajectoryPoint) float64     { return p.Y }
func Velocity(p TrajectoryPoint) float64     { return p.Velocity }
func Acceleration(p TrajectoryPoint) float64 { return p.Acceleration }
func Time(p TrajectoryPoint) float64         { return p.Time }
