package units

import (
	"math"
	"testing"
)

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"hectopsi", Hectopsi(11), 7584233.019},
		{"psi", PSI(100), PascalsPer100PSI},
		{"square feet", SquareFeet(0.25), 0.02322575},
		{"pounds", Pounds(5), 2.26796},
		{"litres", Litres(2.3), 0.0023},
		{"inches", Inches(0.5), 0.0127},
	}

	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9*math.Max(1, math.Abs(tt.want)) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	if v := ToPounds(Pounds(3.3)); math.Abs(v-3.3) > 1e-12 {
		t.Errorf("expected 3.3 lb, got %v", v)
	}
	if v := ToLitres(Litres(1.5)); math.Abs(v-1.5) > 1e-12 {
		t.Errorf("expected 1.5 L, got %v", v)
	}
	if v := ToPSI(PSI(60)); math.Abs(v-60) > 1e-9 {
		t.Errorf("expected 60 psi, got %v", v)
	}
}
