package sim

// DefaultMaxSteps bounds both integrators. At the default dt of 0.01 s it
// allows roughly 2.8 hours of simulated time.
const DefaultMaxSteps = 1_000_000

type Limits struct {
	MaxSteps int `json:"max_steps" yaml:"max_steps"`
}

func DefaultLimits() Limits {
	return Limits{MaxSteps: DefaultMaxSteps}
}

// Exceeded reports whether step (1-based) is past the budget. A non-positive
// MaxSteps falls back to DefaultMaxSteps.
func (l Limits) Exceeded(step int) bool {
	max := l.MaxSteps
	if max <= 0 {
		max = DefaultMaxSteps
	}
	return step > max
}
