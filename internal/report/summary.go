package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/aquasim/internal/experiment"
	"github.com/san-kum/aquasim/internal/propulsion"
	"github.com/san-kum/aquasim/internal/units"
)

// Summary collects the headline figures of one scenario run.
type Summary struct {
	Scenario string `json:"scenario"`

	DryMass   float64 `json:"dry_mass"`
	DryMassLb float64 `json:"dry_mass_lb"`

	ApogeeHeight   float64 `json:"apogee_height"`
	ApogeeTime     float64 `json:"apogee_time"`
	MaxVelocity    float64 `json:"max_velocity"`
	PeakAccelG     float64 `json:"peak_accel_g"`
	TotalImpulse   float64 `json:"total_impulse"`
	PeakThrust     float64 `json:"peak_thrust"`
	MeanThrust     float64 `json:"mean_thrust"`
	BurnTime       float64 `json:"burn_time"`
	EndingMassFlow float64 `json:"ending_mass_flow"`

	StartingWaterMass float64 `json:"starting_water_mass"`
	StartingAirMass   float64 `json:"starting_air_mass"`
	StartingPressure  float64 `json:"starting_pressure_kpa"`

	VolumeAirPct   float64 `json:"volume_air_pct"`
	VolumeWaterPct float64 `json:"volume_water_pct"`
	MassAirPct     float64 `json:"mass_air_pct"`
	MassWaterPct   float64 `json:"mass_water_pct"`

	TankVolumeL        float64 `json:"tank_volume_l"`
	TankLength         float64 `json:"tank_length"`
	TankArea           float64 `json:"tank_area"`
	TankRadiusCm       float64 `json:"tank_radius_cm"`
	HoopStressMPa      float64 `json:"hoop_stress_mpa"`
	LongitudinalStress float64 `json:"longitudinal_stress_mpa"`
}

func Summarize(res *experiment.Result) Summary {
	p := res.Profile
	fr := res.Flight
	rocket := res.Scenario.ResolvedRocket()

	s := Summary{
		Scenario:          res.Scenario.Name,
		DryMass:           rocket.DryMass(),
		DryMassLb:         units.ToPounds(rocket.DryMass()),
		MaxVelocity:       fr.Metrics["max_velocity"],
		PeakAccelG:        fr.Metrics["peak_acceleration"] / StandardGravity,
		TotalImpulse:      fr.Metrics["total_impulse"],
		BurnTime:          p.BurnTime(),
		StartingWaterMass: p.InitialWaterMass,
		StartingAirMass:   p.InitialAirMass,
		StartingPressure:  units.ToKilopascals(p.InitialPressure),

		TankVolumeL:        units.ToLitres(res.Tank.Volume),
		TankLength:         res.Tank.Length,
		TankArea:           res.Tank.FrontalArea,
		TankRadiusCm:       res.Tank.Radius * 100,
		HoopStressMPa:      units.ToMegapascals(res.Tank.HoopStress),
		LongitudinalStress: units.ToMegapascals(res.Tank.LongitudinalStress),
	}

	highest := fr.Highest()
	s.ApogeeHeight = highest.Y
	s.ApogeeTime = highest.Time

	if water := p.WaterPhase(); len(water) > 0 {
		s.EndingMassFlow = water[len(water)-1].MassFlow
	}

	if thrust := p.Series(func(ts propulsion.ThrustSample) float64 { return ts.Thrust }); len(thrust) > 0 {
		s.PeakThrust = floats.Max(thrust)
		s.MeanThrust = floats.Sum(thrust) / float64(len(thrust))
	}

	s.VolumeAirPct, s.VolumeWaterPct = percents(p.TotalAirVolume, p.TotalWaterVolume)
	s.MassAirPct, s.MassWaterPct = percents(p.InitialAirMass, p.InitialWaterMass)

	return s
}

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff00ff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(26)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff"))
)

func line(label, format string, args ...any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf(format, args...))
}

// RenderSummary lays the summary out as a bordered terminal panel.
func RenderSummary(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Scenario " + s.Scenario))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Flight") + "\n")
	b.WriteString(line("Dry Mass", "%.4f kg (%.3f lb)", s.DryMass, s.DryMassLb) + "\n")
	b.WriteString(line("Apogee Height", "%.3f m at %.2f s", s.ApogeeHeight, s.ApogeeTime) + "\n")
	b.WriteString(line("Max Velocity", "%.3f m/s", s.MaxVelocity) + "\n")
	b.WriteString(line("Peak Acceleration", "%.2f g", s.PeakAccelG) + "\n")

	b.WriteString("\n" + sectionStyle.Render("Propulsion") + "\n")
	b.WriteString(line("Burn Time", "%.2f s", s.BurnTime) + "\n")
	b.WriteString(line("Peak / Mean Thrust", "%.2f / %.2f N", s.PeakThrust, s.MeanThrust) + "\n")
	b.WriteString(line("Total Impulse", "%.3f N s", s.TotalImpulse) + "\n")
	b.WriteString(line("Starting Water Mass", "%.4f kg", s.StartingWaterMass) + "\n")
	b.WriteString(line("Starting Air Mass", "%.4f kg", s.StartingAirMass) + "\n")
	b.WriteString(line("Starting Tank Pressure", "%.0f kPa", s.StartingPressure) + "\n")
	b.WriteString(line("Ending Mass Flow", "%.4f kg/s", s.EndingMassFlow) + "\n")
	b.WriteString(line("Volume Air/Water", "%.1f%% / %.1f%%", s.VolumeAirPct, s.VolumeWaterPct) + "\n")
	b.WriteString(line("Mass Air/Water", "%.1f%% / %.1f%%", s.MassAirPct, s.MassWaterPct) + "\n")

	b.WriteString("\n" + sectionStyle.Render("Tank") + "\n")
	b.WriteString(line("Volume", "%.3f L", s.TankVolumeL) + "\n")
	b.WriteString(line("Length", "%.3f m", s.TankLength) + "\n")
	b.WriteString(line("Area", "%.5f m^2", s.TankArea) + "\n")
	b.WriteString(line("Radius", "%.2f cm", s.TankRadiusCm) + "\n")
	b.WriteString(line("Hoop / Longitudinal Stress", "%.2f / %.2f MPa", s.HoopStressMPa, s.LongitudinalStress))

	return panelStyle.Render(b.String())
}
