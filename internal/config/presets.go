package config

import (
	"sort"

	"github.com/san-kum/aquasim/internal/airframe"
	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/sim"
	"github.com/san-kum/aquasim/internal/units"
)

var Presets = map[string]*Config{
	// Large high-pressure tank used as the solver default.
	"default": {
		Propulsion: propulsion.Params{
			AirPressure:    units.Hectopsi(25),
			AirVolume:      0.0015,
			WaterVolume:    0.0005,
			NozzleDiameter: 0.01,
			Dt:             0.01,
		},
		Rocket: flight.Rocket{
			StructuralMass: units.Pounds(5),
			PayloadMass:    units.Pounds(1),
			FrontalArea:    units.SquareFeet(0.25),
		},
		Tank: airframe.Tank{Radius: 0.1, Thickness: 0.1},
	},
	// Small bottle charged to 1000 kPa.
	"reference": {
		Propulsion: propulsion.Params{
			AirPressure:    1e6,
			AirVolume:      0.002,
			WaterVolume:    0.0005,
			NozzleDiameter: 0.01,
			Dt:             0.01,
		},
		Rocket: flight.Rocket{
			StructuralMass: 0.25,
			PayloadMass:    0.05,
		},
		Tank: airframe.Tank{Radius: 0.05, Thickness: 0.002},
	},
	"bottle": {
		Propulsion: propulsion.Params{
			AirPressure:    units.Hectopsi(12),
			AirVolume:      units.Litres(1.8),
			WaterVolume:    units.Litres(0.5),
			NozzleDiameter: units.Inches(0.5),
			Dt:             0.01,
		},
		Rocket: flight.Rocket{
			StructuralMass: units.Pounds(2.8),
			PayloadMass:    units.Pounds(0.5),
			FrontalArea:    units.SquareFeet(0.015),
		},
		Tank: airframe.Tank{Radius: units.Inches(2.2), Thickness: units.Inches(1)},
	},
	// Mass-limited entry: 3.3 lb all-up with a 2.76 lb tank.
	"competition": {
		Propulsion: propulsion.Params{
			AirPressure:    units.Hectopsi(11),
			AirVolume:      units.Litres(2.3),
			WaterVolume:    units.Litres(1),
			NozzleDiameter: units.Inches(0.5),
			Dt:             0.01,
		},
		Rocket: flight.Rocket{
			StructuralMass: units.Pounds(3.3 - 0.05),
			PayloadMass:    units.Pounds(0.05),
		},
		Tank: airframe.Tank{Radius: units.Inches(1), Thickness: units.Inches(0.13)},
	},
}

func init() {
	for name, p := range Presets {
		p.Name = name
		p.Constants = propulsion.DefaultConstants()
		p.Limits = sim.DefaultLimits()
		p.Flight = flight.DefaultConfig()
		if p.Rocket.FrontalArea == 0 {
			p.Rocket.FrontalArea = p.Tank.FrontalArea()
		}
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
