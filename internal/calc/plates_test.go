package calc

import (
	"testing"

	"github.com/claude/rptlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

// TestCalculatePlates checks per-side plate loading for both unit systems.
func TestCalculatePlates(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		unit   models.Unit
		want   []float64
	}{
		{"bar only lbs", 45, models.UnitLbs, []float64{}},
		{"below bar", 30, models.UnitLbs, []float64{}},
		{"one plate", 135, models.UnitLbs, []float64{45}},
		{"225", 225, models.UnitLbs, []float64{45, 35, 10}},
		{"small plates", 60, models.UnitLbs, []float64{5, 2.5}},
		{"bar only kg", 20, models.UnitKg, []float64{}},
		{"100 kg", 100, models.UnitKg, []float64{25, 15}},
		{"fractional kg", 22.5, models.UnitKg, []float64{1.25}},
		{"unknown unit uses lbs", 135, models.Unit("stone"), []float64{45}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePlates(tt.target, tt.unit)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CalculatePlates(%v, %s) mismatch (-want +got):\n%s", tt.target, tt.unit, diff)
			}
		})
	}
}

// TestCalculatePlatesNeverExceedsPerSide verifies the greedy walk never
// overshoots the per-side remainder.
func TestCalculatePlatesNeverExceedsPerSide(t *testing.T) {
	for _, unit := range []models.Unit{models.UnitLbs, models.UnitKg} {
		for w := 0.0; w <= 600; w += 1.25 {
			var sum float64
			for _, p := range CalculatePlates(w, unit) {
				sum += p
			}
			perSide := (w - BarWeight(unit)) / 2
			if perSide < 0 {
				perSide = 0
			}
			if sum > perSide+1e-6 {
				t.Fatalf("%s %v: plates sum %v exceeds per side %v", unit, w, sum, perSide)
			}
		}
	}
}
