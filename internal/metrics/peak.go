package metrics

import (
	"math"

	"github.com/san-kum/aquasim/internal/flight"
)

// Peak tracks the largest value of one field across a trajectory.
type Peak struct {
	name    string
	field   func(flight.TrajectoryPoint) float64
	max     float64
	samples int
}

func NewPeak(name string, field func(flight.TrajectoryPoint) float64) *Peak {
	return &Peak{name: name, field: field}
}

func NewMaxAltitude() *Peak {
	return NewPeak("max_altitude", func(p flight.TrajectoryPoint) float64 { return p.Y })
}

func NewMaxVelocity() *Peak {
	return NewPeak("max_velocity", func(p flight.TrajectoryPoint) float64 { return p.Velocity })
}

func NewMaxMach() *Peak {
	return NewPeak("max_mach", func(p flight.TrajectoryPoint) float64 { return p.Mach })
}

// NewPeakAcceleration reports the largest acceleration magnitude.
func NewPeakAcceleration() *Peak {
	return NewPeak("peak_acceleration", func(p flight.TrajectoryPoint) float64 { return math.Abs(p.Acceleration) })
}

func NewPeakDrag() *Peak {
	return NewPeak("peak_drag", func(p flight.TrajectoryPoint) float64 { return p.Drag })
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(pt flight.TrajectoryPoint) {
	v := p.field(pt)
	if p.samples == 0 || v > p.max {
		p.max = v
	}
	p.samples++
}

func (p *Peak) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.samples = 0
}
