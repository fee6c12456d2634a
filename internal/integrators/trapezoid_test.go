package integrators

import (
	"math"
	"testing"
)

func TestTrapezoidConstantAcceleration(t *testing.T) {
	integ := NewTrapezoid()

	const (
		a     = 2.0
		dt    = 0.01
		steps = 100
	)

	k := Kinematics{Acceleration: a}
	for i := 0; i < steps; i++ {
		k = integ.Step(k, a, dt)
	}

	tEnd := steps * dt
	if math.Abs(k.Velocity-a*tEnd) > 1e-9 {
		t.Errorf("expected velocity %f, got %f", a*tEnd, k.Velocity)
	}

	// position uses the end-of-step velocity, so it leads the exact value by a*t*dt/2
	want := 0.5*a*tEnd*tEnd + 0.5*a*tEnd*dt
	if math.Abs(k.Position-want) > 1e-9 {
		t.Errorf("expected position %f, got %f", want, k.Position)
	}
}

func TestTrapezoidAveragesAcceleration(t *testing.T) {
	integ := NewTrapezoid()

	prev := Kinematics{Position: 1, Velocity: 3, Acceleration: 4}
	got := integ.Step(prev, -2, 0.5)

	if got.Velocity != 3.5 {
		t.Errorf("expected velocity 3.5, got %f", got.Velocity)
	}
	if got.Position != 2.75 {
		t.Errorf("expected position 2.75, got %f", got.Position)
	}
	if got.Acceleration != -2 {
		t.Errorf("expected acceleration -2, got %f", got.Acceleration)
	}
}

func BenchmarkTrapezoid(b *testing.B) {
	integ := NewTrapezoid()
	k := Kinematics{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k = integ.Step(k, -9.81, 0.01)
	}
}
