// Package report formats simulation results as CSV tables, terminal summaries
// and plots.
package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/aquasim/internal/flight"
	"github.com/san-kum/aquasim/internal/propulsion"
)

// StandardGravity converts accelerations to g in reports.
const StandardGravity = 9.81

var TrajectoryHeader = []string{
	"Time (s)", "X (m)", "Y (m)", "Velocity (m/s)", "Acceleration (g)",
	"Mass (kg)", "Thrust (N)", "Drag (N)", "Comment",
}

const MaxHeightComment = "Max Height"

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteTrajectory writes the trajectory table: the header, a summary row
// taken from the final point, a separator row, then one row per point.
func WriteTrajectory(w io.Writer, points []flight.TrajectoryPoint) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(TrajectoryHeader); err != nil {
		return err
	}

	if len(points) > 0 {
		last := points[len(points)-1]
		summary := []string{
			formatFloat(last.Time),
			formatFloat(last.X),
			formatFloat(last.Y),
			"",
			formatFloat(last.Acceleration / StandardGravity),
			formatFloat(last.Mass),
			"",
			"",
			MaxHeightComment,
		}
		if err := cw.Write(summary); err != nil {
			return err
		}
		if err := cw.Write([]string{"-", "-", "-", "-", "-"}); err != nil {
			return err
		}
	}

	for _, p := range points {
		row := []string{
			formatFloat(p.Time),
			formatFloat(p.X),
			formatFloat(p.Y),
			formatFloat(p.Velocity),
			formatFloat(p.Acceleration / StandardGravity),
			formatFloat(p.Mass),
			formatFloat(p.Thrust),
			formatFloat(p.Drag),
			p.Comment,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteThrustProfile writes a metadata block describing the charge followed
// by four rows: times, thrust, mass flow and propellant mass.
func WriteThrustProfile(w io.Writer, p *propulsion.Profile) error {
	cw := csv.NewWriter(w)

	volAir, volWater := percents(p.TotalAirVolume, p.TotalWaterVolume)
	massAir, massWater := percents(p.InitialAirMass, p.InitialWaterMass)

	meta := [][]string{
		{"Burntime (s)", formatFloat(p.BurnTime())},
		{"Total Air Pressure (kPa)", formatFloat(p.InitialPressure / 1000)},
		{"Total Air Mass (kg)", formatFloat(p.InitialAirMass)},
		{"Total Water Mass (kg)", formatFloat(p.InitialWaterMass)},
		{"Total Tank Volume (m^3)", formatFloat(p.TankVolume())},
		{"Volume Air/Water Ratio", formatFloat(volAir), formatFloat(volWater)},
		{"Mass Air/Water Percents", formatFloat(massAir), formatFloat(massWater)},
	}
	if err := cw.WriteAll(meta); err != nil {
		return err
	}

	series := []struct {
		label string
		field func(propulsion.ThrustSample) float64
	}{
		{"Time (s)", func(s propulsion.ThrustSample) float64 { return s.Time }},
		{"Thrust Profile (N)", func(s propulsion.ThrustSample) float64 { return s.Thrust }},
		{"Mass Flow (kg/s)", func(s propulsion.ThrustSample) float64 { return s.MassFlow }},
		{"Fuel Mass (kg)", func(s propulsion.ThrustSample) float64 { return s.PropellantMass }},
	}
	for _, s := range series {
		row := make([]string, 0, p.Len()+1)
		row = append(row, s.label)
		for _, sample := range p.Samples {
			row = append(row, formatFloat(s.field(sample)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func percents(a, b float64) (float64, float64) {
	total := a + b
	if total == 0 {
		return 0, 0
	}
	return a / total * 100, b / total * 100
}
