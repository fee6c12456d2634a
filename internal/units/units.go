// Package units converts the imperial and scaled quantities used to describe
// hobby rockets into SI.
package units

const (
	// PascalsPer100PSI is the number of pascals in one hundred psi.
	PascalsPer100PSI          = 689475.729
	SquareMetresPerSquareFoot = 0.092903
	KilogramsPerPound         = 0.453592
	CubicMetresPerLitre       = 0.001
	MetresPerInch             = 0.0254
)

// Hectopsi converts hundreds of psi to pascals.
func Hectopsi(v float64) float64 { return v * PascalsPer100PSI }

func PSI(v float64) float64 { return v * PascalsPer100PSI / 100 }

func SquareFeet(v float64) float64 { return v * SquareMetresPerSquareFoot }

func Pounds(v float64) float64 { return v * KilogramsPerPound }

func Litres(v float64) float64 { return v * CubicMetresPerLitre }

func Inches(v float64) float64 { return v * MetresPerInch }

func ToPounds(kg float64) float64 { return kg / KilogramsPerPound }

func ToLitres(m3 float64) float64 { return m3 / CubicMetresPerLitre }

func ToPSI(pa float64) float64 { return pa * 100 / PascalsPer100PSI }

func ToKilopascals(pa float64) float64 { return pa / 1000 }

func ToMegapascals(pa float64) float64 { return pa / 1e6 }
