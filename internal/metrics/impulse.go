package metrics

import "github.com/san-kum/aquasim/internal/flight"

// Impulse integrates thrust over time with the rectangle rule, using the
// spacing between consecutive points.
type Impulse struct {
	name     string
	total    float64
	lastTime float64
}

func NewImpulse() *Impulse {
	return &Impulse{name: "total_impulse"}
}

func (i *Impulse) Name() string { return i.name }

func (i *Impulse) Observe(p flight.TrajectoryPoint) {
	i.total += p.Thrust * (p.Time - i.lastTime)
	i.lastTime = p.Time
}

func (i *Impulse) Value() float64 { return i.total }

func (i *Impulse) Reset() {
	i.total = 0
	i.lastTime = 0
}

// Standard returns the metrics recorded for every scenario run.
func Standard() []flight.Metric {
	return []flight.Metric{
		NewMaxAltitude(),
		NewMaxVelocity(),
		NewMaxMach(),
		NewPeakAcceleration(),
		NewPeakDrag(),
		NewImpulse(),
	}
}
