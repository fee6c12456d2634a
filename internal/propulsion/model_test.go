package propulsion

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/san-kum/aquasim/internal/sim"
)

func referenceParams() Params {
	return Params{
		AirPressure:    1e6,
		AirVolume:      0.002,
		WaterVolume:    0.0005,
		NozzleDiameter: 0.01,
		Dt:             0.01,
	}
}

func runReference(t *testing.T) *Profile {
	t.Helper()
	p, err := New(referenceParams(), DefaultConstants(), sim.DefaultLimits()).Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return p
}

func TestReferenceScenario(t *testing.T) {
	p := runReference(t)

	if p.Len() == 0 {
		t.Fatal("expected samples")
	}
	if p.Samples[0].Thrust <= 0 {
		t.Errorf("expected positive first thrust, got %f", p.Samples[0].Thrust)
	}
	if p.TransitionIndex <= 0 {
		t.Fatalf("expected a water phase followed by blow-down, transition at %d", p.TransitionIndex)
	}

	for i, s := range p.WaterPhase() {
		if s.MassFlow <= 0 {
			t.Errorf("sample %d: expected positive mass flow while water remains, got %f", i, s.MassFlow)
		}
		if s.Phase != PhaseWater {
			t.Errorf("sample %d: expected water phase, got %s", i, s.Phase)
		}
	}
	for _, s := range p.AirPhase() {
		if s.WaterMass != 0 {
			t.Errorf("expected no water during blow-down, got %f", s.WaterMass)
		}
	}

	last := p.Samples[p.Len()-1]
	if last.Pressure > DefaultConstants().AtmosphericPressure {
		t.Errorf("expected final pressure at or below ambient, got %f", last.Pressure)
	}
	if p.BurnTime() != last.Time {
		t.Errorf("expected burn time %f, got %f", last.Time, p.BurnTime())
	}
}

func TestSampleTimes(t *testing.T) {
	p := runReference(t)

	for i, s := range p.Samples {
		want := float64(i+1) * p.Dt
		if math.Abs(s.Time-want) > 1e-9 {
			t.Fatalf("sample %d: expected time %f, got %f", i, want, s.Time)
		}
	}
}

func TestMassConservation(t *testing.T) {
	p := runReference(t)
	dt := p.Dt

	prevWater := p.InitialWaterMass
	prevAir := p.InitialAirMass
	for i, s := range p.Samples {
		if math.Abs(s.PropellantMass-(s.WaterMass+s.AirMass)) > 1e-12 {
			t.Fatalf("sample %d: propellant mass %f != water %f + air %f", i, s.PropellantMass, s.WaterMass, s.AirMass)
		}

		switch s.Phase {
		case PhaseWater:
			if s.AirMass != prevAir {
				t.Fatalf("sample %d: air mass changed during water phase", i)
			}
			want := math.Min(s.MassFlow*dt, prevWater)
			if math.Abs((prevWater-s.WaterMass)-want) > 1e-12 {
				t.Fatalf("sample %d: expected %g kg water removed, got %g", i, want, prevWater-s.WaterMass)
			}
		case PhaseAir:
			want := math.Min(s.MassFlow*dt, prevAir)
			if math.Abs((prevAir-s.AirMass)-want) > 1e-12 {
				t.Fatalf("sample %d: expected %g kg air removed, got %g", i, want, prevAir-s.AirMass)
			}
		}

		if s.WaterMass < 0 || s.AirMass < 0 {
			t.Fatalf("sample %d: negative mass", i)
		}
		prevWater, prevAir = s.WaterMass, s.AirMass
	}
}

func TestInitialMasses(t *testing.T) {
	p := runReference(t)
	c := DefaultConstants()

	if math.Abs(p.InitialWaterMass-0.5) > 1e-12 {
		t.Errorf("expected 0.5 kg water, got %f", p.InitialWaterMass)
	}
	wantAir := 0.002 * 1e6 / (c.GasConstant * c.Temperature)
	if math.Abs(p.InitialAirMass-wantAir) > 1e-12 {
		t.Errorf("expected %f kg air, got %f", wantAir, p.InitialAirMass)
	}
	if math.Abs(p.TankVolume()-0.0025) > 1e-12 {
		t.Errorf("expected tank volume 0.0025, got %f", p.TankVolume())
	}
}

func TestDeterministic(t *testing.T) {
	a := runReference(t)
	b := runReference(t)

	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical profiles for identical inputs")
	}
}

func TestProfileAt(t *testing.T) {
	p := runReference(t)

	if got := p.At(p.Dt); got != p.Samples[0] {
		t.Errorf("expected first sample at t=dt, got %+v", got)
	}
	if got := p.At(3 * p.Dt); got != p.Samples[2] {
		t.Errorf("expected third sample at t=3dt, got %+v", got)
	}

	tests := []float64{0, -1, p.BurnTime() + p.Dt, 1e6}
	for _, tt := range tests {
		if got := p.At(tt); got != (ThrustSample{}) {
			t.Errorf("At(%f): expected zero sample, got %+v", tt, got)
		}
	}

	if p.FuelMass(p.BurnTime()+1) != 0 {
		t.Error("expected zero fuel mass past the profile")
	}
}

func TestInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero pressure", func(p *Params) { p.AirPressure = 0 }},
		{"negative air volume", func(p *Params) { p.AirVolume = -1 }},
		{"zero water volume", func(p *Params) { p.WaterVolume = 0 }},
		{"zero nozzle", func(p *Params) { p.NozzleDiameter = 0 }},
		{"negative dt", func(p *Params) { p.Dt = -0.01 }},
		{"nan dt", func(p *Params) { p.Dt = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := referenceParams()
			tt.mutate(&params)

			_, err := New(params, DefaultConstants(), sim.DefaultLimits()).Run(context.Background())
			if !errors.Is(err, sim.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestInvalidConstants(t *testing.T) {
	c := DefaultConstants()
	c.GasConstant = 0

	_, err := New(referenceParams(), c, sim.DefaultLimits()).Run(context.Background())
	if !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestStepLimit(t *testing.T) {
	_, err := New(referenceParams(), DefaultConstants(), sim.Limits{MaxSteps: 3}).Run(context.Background())
	if !errors.Is(err, sim.ErrNonTerminating) {
		t.Fatalf("expected ErrNonTerminating, got %v", err)
	}

	var serr *sim.SimError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *sim.SimError, got %T", err)
	}
	if serr.Step != 4 {
		t.Errorf("expected failure at step 4, got %d", serr.Step)
	}
	if serr.Phase != PhaseWater.String() {
		t.Errorf("expected water phase, got %s", serr.Phase)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(referenceParams(), DefaultConstants(), sim.DefaultLimits()).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBelowAmbientProducesNoThrust(t *testing.T) {
	params := referenceParams()
	params.AirPressure = 50

	p, err := New(params, DefaultConstants(), sim.DefaultLimits()).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("expected no samples below ambient pressure, got %d", p.Len())
	}
	if p.BurnTime() != 0 {
		t.Errorf("expected zero burn time, got %f", p.BurnTime())
	}
}
