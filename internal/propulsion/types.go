package propulsion

import (
	"fmt"
	"math"

	"github.com/san-kum/aquasim/internal/sim"
)

type Phase int

const (
	PhaseInit Phase = iota
	PhaseWater
	PhaseAir
	PhaseTerminal
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseWater:
		return "water"
	case PhaseAir:
		return "air"
	case PhaseTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Params describes the charged bottle. Pressure is absolute, in Pa.
type Params struct {
	AirPressure    float64 `json:"air_pressure" yaml:"air_pressure"`
	AirVolume      float64 `json:"air_volume" yaml:"air_volume"`
	WaterVolume    float64 `json:"water_volume" yaml:"water_volume"`
	NozzleDiameter float64 `json:"nozzle_diameter" yaml:"nozzle_diameter"`
	Dt             float64 `json:"dt" yaml:"dt"`
}

func (p Params) NozzleArea() float64 {
	r := p.NozzleDiameter / 2
	return math.Pi * r * r
}

func (p Params) TankVolume() float64 {
	return p.AirVolume + p.WaterVolume
}

func (p Params) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"air pressure", p.AirPressure},
		{"air volume", p.AirVolume},
		{"water volume", p.WaterVolume},
		{"nozzle diameter", p.NozzleDiameter},
		{"dt", p.Dt},
	}
	for _, c := range checks {
		if !(c.value > 0) || math.IsInf(c.value, 0) {
			return sim.Invalid(c.name, c.value)
		}
	}
	return nil
}

// Constants are the physical properties used by the expulsion model.
type Constants struct {
	AtmosphericPressure  float64 `json:"atmospheric_pressure" yaml:"atmospheric_pressure"`
	WaterDensity         float64 `json:"water_density" yaml:"water_density"`
	GasConstant          float64 `json:"gas_constant" yaml:"gas_constant"`
	Temperature          float64 `json:"temperature" yaml:"temperature"`
	AdiabaticIndex       float64 `json:"adiabatic_index" yaml:"adiabatic_index"`
	DischargeCoefficient float64 `json:"discharge_coefficient" yaml:"discharge_coefficient"`
}

func DefaultConstants() Constants {
	return Constants{
		AtmosphericPressure:  101.01,
		WaterDensity:         1000,
		GasConstant:          287,
		Temperature:          293,
		AdiabaticIndex:       1.4,
		DischargeCoefficient: 0.98,
	}
}

func (c Constants) Validate() error {
	if c.AtmosphericPressure < 0 {
		return fmt.Errorf("%w: atmospheric pressure must not be negative, got %g", sim.ErrInvalidConfig, c.AtmosphericPressure)
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"water density", c.WaterDensity},
		{"gas constant", c.GasConstant},
		{"temperature", c.Temperature},
		{"adiabatic index", c.AdiabaticIndex},
		{"discharge coefficient", c.DischargeCoefficient},
	}
	for _, ch := range checks {
		if !(ch.value > 0) {
			return sim.Invalid(ch.name, ch.value)
		}
	}
	return nil
}

// ThrustSample is the propellant state at the end of one step.
type ThrustSample struct {
	Time             float64 `json:"time"`
	Thrust           float64 `json:"thrust"`
	MassFlow         float64 `json:"mass_flow"`
	PropellantMass   float64 `json:"propellant_mass"`
	AirVolume        float64 `json:"air_volume"`
	WaterVolume      float64 `json:"water_volume"`
	TotalAirVolume   float64 `json:"total_air_volume"`
	TotalWaterVolume float64 `json:"total_water_volume"`
	AirMass          float64 `json:"air_mass"`
	WaterMass        float64 `json:"water_mass"`
	Pressure         float64 `json:"pressure"`
	Phase            Phase   `json:"phase"`
}

// Profile is the thrust time series produced by one model run.
type Profile struct {
	Samples []ThrustSample `json:"samples"`
	Dt      float64        `json:"dt"`

	// TransitionIndex is the index of the first blow-down sample, or -1 when
	// the air phase produced no samples.
	TransitionIndex int `json:"transition_index"`

	InitialPressure  float64 `json:"initial_pressure"`
	InitialAirMass   float64 `json:"initial_air_mass"`
	InitialWaterMass float64 `json:"initial_water_mass"`
	TotalAirVolume   float64 `json:"total_air_volume"`
	TotalWaterVolume float64 `json:"total_water_volume"`
	NozzleArea       float64 `json:"nozzle_area"`
}

func (p *Profile) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Samples)
}

// BurnTime is the time of the last sample.
func (p *Profile) BurnTime() float64 {
	if p.Len() == 0 {
		return 0
	}
	return p.Samples[len(p.Samples)-1].Time
}

// At returns the sample recorded at time t. Sample i covers time (i+1)*Dt.
// Times outside the profile yield the zero sample.
func (p *Profile) At(t float64) ThrustSample {
	if p.Len() == 0 || p.Dt <= 0 {
		return ThrustSample{}
	}
	idx := int(math.Round(t/p.Dt)) - 1
	if idx < 0 || idx >= len(p.Samples) {
		return ThrustSample{}
	}
	return p.Samples[idx]
}

func (p *Profile) Thrust(t float64) float64   { return p.At(t).Thrust }
func (p *Profile) FuelMass(t float64) float64 { return p.At(t).PropellantMass }

func (p *Profile) TankVolume() float64 {
	return p.TotalAirVolume + p.TotalWaterVolume
}

func (p *Profile) InitialPropellantMass() float64 {
	return p.InitialAirMass + p.InitialWaterMass
}

// WaterPhase returns the samples recorded while water was being expelled.
func (p *Profile) WaterPhase() []ThrustSample {
	if p.TransitionIndex < 0 {
		return p.Samples
	}
	return p.Samples[:p.TransitionIndex]
}

func (p *Profile) AirPhase() []ThrustSample {
	if p.TransitionIndex < 0 {
		return nil
	}
	return p.Samples[p.TransitionIndex:]
}

// Series extracts one field from every sample, for plotting and statistics.
func (p *Profile) Series(field func(ThrustSample) float64) []float64 {
	out := make([]float64, p.Len())
	for i, s := range p.Samples {
		out[i] = field(s)
	}
	return out
}
