package demand

import "testing"

func TestProbableFlowLPM(t *testing.T) {
	tests := []struct {
		name     string
		units    float64
		expected float64
	}{
		{"zero load", 0, 0},
		{"negative load", -3, 0},
		{"exact curve point", 10, 60},
		{"midpoint interpolation", 15, 77.5}, // halfway between 60 and 95
		{"beyond curve clamps", 1000, 560},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProbableFlowLPM(tt.units); got != tt.expected {
				t.Errorf("ProbableFlowLPM(%v) = %v, expected %v", tt.units, got, tt.expected)
			}
		})
	}
}

func TestProbableFlowMonotonic(t *testing.T) {
	prev := 0.0
	for units := 1.0; units <= 320; units++ {
		got := ProbableFlowLPM(units)
		if got < prev {
			t.Fatalf("demand decreased at %v fixture units: %v < %v", units, got, prev)
		}
		prev = got
	}
}
