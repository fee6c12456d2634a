// Package integrators advances one-dimensional kinematic state by a fixed step.
package integrators

// Kinematics is position, velocity and acceleration along one axis.
type Kinematics struct {
	Position     float64
	Velocity     float64
	Acceleration float64
}

type Stepper interface {
	Step(prev Kinematics, accel, dt float64) Kinematics
}

// Trapezoid averages the previous and new acceleration to update velocity,
// then advances position with the updated velocity.
type Trapezoid struct{}

func NewTrapezoid() *Trapezoid {
	return &Trapezoid{}
}

func (t *Trapezoid) Step(prev Kinematics, accel, dt float64) Kinematics {
	v := prev.Velocity + 0.5*dt*(accel+prev.Acceleration)
	return Kinematics{
		Position:     v*dt + prev.Position,
		Velocity:     v,
		Acceleration: accel,
	}
}
