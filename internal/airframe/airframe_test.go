package airframe

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/aquasim/internal/sim"
)

func TestStresses(t *testing.T) {
	hoop := HoopStress(1e6, 0.05, 0.002)
	if math.Abs(hoop-25e6) > 1e-6 {
		t.Errorf("expected hoop stress 25 MPa, got %f", hoop)
	}

	long := LongitudinalStress(1e6, 0.05, 0.002)
	if math.Abs(long-hoop/2) > 1e-6 {
		t.Errorf("expected longitudinal stress half of hoop, got %f", long)
	}
}

func TestGeometry(t *testing.T) {
	tank := Tank{Radius: 0.04, Thickness: 0.01}
	area := tank.FrontalArea()

	if math.Abs(area-math.Pi*0.0025) > 1e-15 {
		t.Errorf("expected area %f, got %f", math.Pi*0.0025, area)
	}
	if r := EquivalentRadius(area); math.Abs(r-0.05) > 1e-12 {
		t.Errorf("expected radius 0.05, got %f", r)
	}
	if l := Length(2*area, area); math.Abs(l-2) > 1e-12 {
		t.Errorf("expected length 2, got %f", l)
	}
	if Length(1, 0) != 0 || EquivalentRadius(-1) != 0 {
		t.Error("expected zero for degenerate geometry")
	}
}

func TestAnalyze(t *testing.T) {
	stats, err := Analyze(Tank{Radius: 0.1, Thickness: 0.1}, 2e6, 0.002, 0.02)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.HoopStress != 2e6 {
		t.Errorf("expected hoop stress 2e6, got %f", stats.HoopStress)
	}
	if math.Abs(stats.Length-0.1) > 1e-12 {
		t.Errorf("expected length 0.1, got %f", stats.Length)
	}

	_, err = Analyze(Tank{Radius: 0.1}, 2e6, 0.002, 0.02)
	if !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
