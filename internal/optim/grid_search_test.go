package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/aquasim/internal/config"
)

func TestLinspace(t *testing.T) {
	got := Linspace(1, 2, 5)
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("index %d: expected %f, got %f", i, want[i], got[i])
		}
	}

	if v := Linspace(3, 4, 1); len(v) != 1 || v[0] != 3 {
		t.Errorf("expected [3], got %v", v)
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("expected nil for zero points")
	}
}

func TestGrid(t *testing.T) {
	g := NewGridSearch([]string{"air_pressure", "water_volume"}, [][]float64{{1, 2, 3}, {4, 5}})
	grid := g.Grid()

	if len(grid) != 6 {
		t.Fatalf("expected 6 combinations, got %d", len(grid))
	}
	if grid[0]["air_pressure"] != 1 || grid[0]["water_volume"] != 4 {
		t.Errorf("unexpected first combination: %v", grid[0])
	}
	if grid[5]["air_pressure"] != 3 || grid[5]["water_volume"] != 5 {
		t.Errorf("unexpected last combination: %v", grid[5])
	}
}

func TestSearchPressure(t *testing.T) {
	base := config.GetPreset("reference")
	pressures := []float64{4e5, 7e5, 1e6}

	trials, best, err := NewGridSearch([]string{"air_pressure"}, [][]float64{pressures}).
		WithWorkers(2).
		Search(context.Background(), base, "max_altitude", true)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if len(trials) != len(pressures) {
		t.Fatalf("expected %d trials, got %d", len(pressures), len(trials))
	}
	for i, tr := range trials {
		if tr.Err != nil {
			t.Errorf("trial %d failed: %v", i, tr.Err)
		}
		if tr.Params["air_pressure"] != pressures[i] {
			t.Errorf("trial %d: expected pressure %f, got %f", i, pressures[i], tr.Params["air_pressure"])
		}
	}

	if best.Params["air_pressure"] != 1e6 {
		t.Errorf("expected highest pressure to fly highest, got %v", best.Params)
	}
	if base.Propulsion.AirPressure != 1e6 {
		t.Error("expected base scenario to be left untouched")
	}
}

func TestSearchMinimize(t *testing.T) {
	base := config.GetPreset("reference")

	_, best, err := NewGridSearch([]string{"air_pressure"}, [][]float64{{4e5, 1e6}}).
		Search(context.Background(), base, "max_altitude", false)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best.Params["air_pressure"] != 4e5 {
		t.Errorf("expected lowest pressure when minimizing, got %v", best.Params)
	}
}

func TestSearchKeepsFailedTrials(t *testing.T) {
	base := config.GetPreset("reference")

	trials, best, err := NewGridSearch([]string{"nozzle_diameter"}, [][]float64{{0, 0.01}}).
		Search(context.Background(), base, "max_altitude", true)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if trials[0].Err == nil {
		t.Error("expected zero nozzle trial to fail")
	}
	if !math.IsNaN(trials[0].Value) {
		t.Errorf("expected NaN for failed trial, got %f", trials[0].Value)
	}
	if best != &trials[1] {
		t.Error("expected the successful trial to be best")
	}
}

func TestSearchValidation(t *testing.T) {
	base := config.GetPreset("reference")

	tests := []struct {
		name   string
		params []string
		ranges [][]float64
		metric string
	}{
		{"unknown param", []string{"bogus"}, [][]float64{{1}}, "max_altitude"},
		{"mismatched ranges", []string{"air_pressure"}, nil, "max_altitude"},
		{"empty range", []string{"air_pressure"}, [][]float64{{}}, "max_altitude"},
		{"unknown metric", []string{"air_pressure"}, [][]float64{{1e6}}, "bogus"},
	}

	for _, tt := range tests {
		if _, _, err := NewGridSearch(tt.params, tt.ranges).Search(context.Background(), base, tt.metric, true); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSearchAllFail(t *testing.T) {
	base := config.GetPreset("reference")

	_, best, err := NewGridSearch([]string{"air_volume"}, [][]float64{{0, -1}}).
		Search(context.Background(), base, "max_altitude", true)
	if err == nil {
		t.Error("expected error when every trial fails")
	}
	if best != nil {
		t.Error("expected no best trial")
	}
}
