// Package airframe derives tank geometry and wall stresses for a cylindrical
// pressure vessel of constant cross-section.
package airframe

import (
	"math"

	"github.com/san-kum/aquasim/internal/sim"
)

type Tank struct {
	Radius    float64 `json:"radius" yaml:"radius"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
}

// FrontalArea is the cross-section of the tank including its wall.
func (t Tank) FrontalArea() float64 {
	r := t.Radius + t.Thickness
	return math.Pi * r * r
}

func (t Tank) Validate() error {
	if !(t.Radius > 0) {
		return sim.Invalid("tank radius", t.Radius)
	}
	if !(t.Thickness > 0) {
		return sim.Invalid("tank thickness", t.Thickness)
	}
	return nil
}

// HoopStress is the circumferential wall stress P r / t.
func HoopStress(pressure, radius, thickness float64) float64 {
	return pressure * radius / thickness
}

// LongitudinalStress is the axial wall stress P r / 2t.
func LongitudinalStress(pressure, radius, thickness float64) float64 {
	return pressure * radius / (2 * thickness)
}

// Length assumes the tank keeps the frontal cross-section along its length.
func Length(volume, frontalArea float64) float64 {
	if frontalArea <= 0 {
		return 0
	}
	return volume / frontalArea
}

// EquivalentRadius is the radius of a circle with the given area.
func EquivalentRadius(area float64) float64 {
	if area <= 0 {
		return 0
	}
	return math.Sqrt(area / math.Pi)
}

type Stats struct {
	Volume             float64 `json:"volume"`
	Length             float64 `json:"length"`
	FrontalArea        float64 `json:"frontal_area"`
	Radius             float64 `json:"radius"`
	HoopStress         float64 `json:"hoop_stress"`
	LongitudinalStress float64 `json:"longitudinal_stress"`
}

func Analyze(tank Tank, pressure, volume, frontalArea float64) (Stats, error) {
	if err := tank.Validate(); err != nil {
		return Stats{}, err
	}
	return Stats{
		Volume:             volume,
		Length:             Length(volume, frontalArea),
		FrontalArea:        frontalArea,
		Radius:             EquivalentRadius(frontalArea),
		HoopStress:         HoopStress(pressure, tank.Radius, tank.Thickness),
		LongitudinalStress: LongitudinalStress(pressure, tank.Radius, tank.Thickness),
	}, nil
}
