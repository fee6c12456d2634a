// Package propulsion models a pressurised water rocket motor: water is driven
// out of the nozzle by expanding air, then the remaining air blows down to
// ambient pressure. The output is a Profile sampled once per step.
package propulsion

import (
	"context"
	"math"

	"github.com/san-kum/aquasim/internal/sim"
)

type Model struct {
	params Params
	consts Constants
	limits sim.Limits
}

func New(params Params, consts Constants, limits sim.Limits) *Model {
	return &Model{params: params, consts: consts, limits: limits}
}

func (m *Model) Params() Params       { return m.params }
func (m *Model) Constants() Constants { return m.consts }

type state struct {
	phase     Phase
	pressure  float64
	airVol    float64
	waterVol  float64
	airMass   float64
	waterMass float64
	massFlow  float64
	exitVel   float64
	step      int
}

func (m *Model) Run(ctx context.Context) (*Profile, error) {
	if err := m.params.Validate(); err != nil {
		return nil, err
	}
	if err := m.consts.Validate(); err != nil {
		return nil, err
	}

	c := m.consts
	dt := m.params.Dt
	area := m.params.NozzleArea()

	s := state{
		phase:     PhaseInit,
		pressure:  m.params.AirPressure,
		airVol:    m.params.AirVolume,
		waterVol:  m.params.WaterVolume,
		waterMass: c.WaterDensity * m.params.WaterVolume,
		airMass:   m.params.AirVolume * m.params.AirPressure / (c.GasConstant * c.Temperature),
	}

	profile := &Profile{
		Samples:          make([]ThrustSample, 0, 256),
		Dt:               dt,
		TransitionIndex:  -1,
		InitialPressure:  s.pressure,
		InitialAirMass:   s.airMass,
		InitialWaterMass: s.waterMass,
		TotalAirVolume:   m.params.AirVolume,
		TotalWaterVolume: m.params.WaterVolume,
		NozzleArea:       area,
	}
	tank := profile.TankVolume()

	s.phase = PhaseWater
	for s.phase != PhaseTerminal {
		select {
		case <-ctx.Done():
			return profile, ctx.Err()
		default:
		}

		var thrust float64
		switch s.phase {
		case PhaseWater:
			if s.waterMass <= 0 || s.pressure < c.AtmosphericPressure {
				s.phase = PhaseAir
				continue
			}
			thrust = m.waterStep(&s, area)

		case PhaseAir:
			if !(s.pressure > c.AtmosphericPressure) {
				s.phase = PhaseTerminal
				continue
			}
			if profile.TransitionIndex < 0 {
				profile.TransitionIndex = len(profile.Samples)
			}
			thrust = m.airStep(&s, area, tank)
		}

		s.step++
		if m.limits.Exceeded(s.step) {
			return profile, &sim.SimError{
				Phase:   s.phase.String(),
				Step:    s.step,
				Time:    float64(s.step) * dt,
				Wrapped: sim.ErrNonTerminating,
			}
		}

		profile.Samples = append(profile.Samples, ThrustSample{
			Time:             float64(s.step) * dt,
			Thrust:           thrust,
			MassFlow:         s.massFlow,
			PropellantMass:   s.waterMass + s.airMass,
			AirVolume:        s.airVol,
			WaterVolume:      s.waterVol,
			TotalAirVolume:   profile.TotalAirVolume,
			TotalWaterVolume: profile.TotalWaterVolume,
			AirMass:          s.airMass,
			WaterMass:        s.waterMass,
			Pressure:         s.pressure,
			Phase:            s.phase,
		})
	}

	return profile, nil
}

// waterStep expels water for one step and expands the air adiabatically into
// the vacated volume.
func (m *Model) waterStep(s *state, area float64) float64 {
	c := m.consts
	dt := m.params.Dt

	s.exitVel = math.Sqrt(2 * math.Abs(s.pressure-c.AtmosphericPressure) / c.WaterDensity)
	s.massFlow = c.WaterDensity * s.exitVel * area * c.DischargeCoefficient

	removed := math.Min(s.massFlow*dt, s.waterMass)
	s.waterMass -= removed

	dv := removed / c.WaterDensity
	prevAir := s.airVol
	s.airVol += dv
	s.waterVol = math.Max(s.waterVol-dv, 0)
	if s.waterMass <= 0 {
		s.waterMass = 0
		s.waterVol = 0
	}

	s.pressure *= math.Pow(prevAir/s.airVol, c.AdiabaticIndex)

	return s.massFlow * s.exitVel
}

// airStep vents air for one step. Thrust uses the pressure at the start of the
// step; the tank is then re-pressurised from the remaining air mass.
func (m *Model) airStep(s *state, area, tank float64) float64 {
	c := m.consts
	dt := m.params.Dt

	start := s.pressure
	rho := start / (c.GasConstant * c.Temperature)
	s.exitVel = c.DischargeCoefficient * math.Sqrt(2*math.Abs(start-c.AtmosphericPressure)/rho)
	s.massFlow = rho * s.exitVel * area

	s.airMass = math.Max(s.airMass-s.massFlow*dt, 0)
	s.airVol = tank - s.waterVol

	thrust := s.massFlow*s.exitVel + area*(start-c.AtmosphericPressure)
	s.pressure = s.airMass * c.GasConstant * c.Temperature / tank

	return thrust
}
