package calc

import (
	"testing"

	"github.com/claude/rptlog/internal/models"
	"github.com/google/go-cmp/cmp"
)

// TestRPTFirstSetUnchanged verifies set 1 is always the top set.
func TestRPTFirstSetUnchanged(t *testing.T) {
	settings := &models.ProgressionSettings{RPTSet2Percentage: 85, RPTSet3Percentage: 70}
	for _, w := range []float64{0, 42.5, 135, 187.3, 400} {
		if got := CalculateRPTWeights(w, 1, settings); got != w {
			t.Errorf("CalculateRPTWeights(%v, 1) = %v, want %v", w, got, w)
		}
		if got := CalculateRPTWeights(w, 1, nil); got != w {
			t.Errorf("CalculateRPTWeights(%v, 1, nil) = %v, want %v", w, got, w)
		}
	}
}

// TestRPTBackoffSets checks the percentage drop-offs and 2.5 rounding.
func TestRPTBackoffSets(t *testing.T) {
	custom := &models.ProgressionSettings{RPTSet2Percentage: 85, RPTSet3Percentage: 75}
	tests := []struct {
		name     string
		top      float64
		set      int
		settings *models.ProgressionSettings
		want     float64
	}{
		{"default set 2", 200, 2, nil, 180},
		{"default set 3", 200, 3, nil, 160},
		{"rounds set 2", 185, 2, nil, 167.5},  // 166.5
		{"rounds set 3", 185, 3, nil, 147.5},  // 148
		{"custom set 2", 200, 2, custom, 170},
		{"custom set 3", 225, 3, custom, 170},   // 168.75
		{"zero pct falls back", 200, 2, &models.ProgressionSettings{}, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateRPTWeights(tt.top, tt.set, tt.settings); got != tt.want {
				t.Errorf("CalculateRPTWeights(%v, %d) = %v, want %v", tt.top, tt.set, got, tt.want)
			}
		})
	}
}

// TestRPTBeyondThirdSet documents that sets past 3 keep the top weight.
func TestRPTBeyondThirdSet(t *testing.T) {
	if got := CalculateRPTWeights(200, 4, nil); got != 200 {
		t.Errorf("set 4 = %v, want 200", got)
	}
	if got := CalculateRPTWeights(200, 7, nil); got != 200 {
		t.Errorf("set 7 = %v, want 200", got)
	}
}

// TestWarmupWeights checks the fixed 50/70/80 ramp with 6/5/3 reps.
func TestWarmupWeights(t *testing.T) {
	got := CalculateWarmupWeights(225)
	want := []WarmupSet{
		{Percent: 50, Weight: 112.5, Reps: 6},
		{Percent: 70, Weight: 157.5, Reps: 5},
		{Percent: 80, Weight: 180, Reps: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CalculateWarmupWeights(225) mismatch (-want +got):\n%s", diff)
	}
}

// TestShouldLevelUp checks the goal-reps comparison.
func TestShouldLevelUp(t *testing.T) {
	if !ShouldLevelUp(8, 8) {
		t.Error("8 of 8 should level up")
	}
	if !ShouldLevelUp(9, 8) {
		t.Error("9 of 8 should level up")
	}
	if ShouldLevelUp(7, 8) {
		t.Error("7 of 8 should not level up")
	}
}

// TestSuggestNextWeight verifies increments by unit and per-exercise override.
func TestSuggestNextWeight(t *testing.T) {
	s := models.ProgressionSettings{
		GlobalIncrementLbs: 5,
		GlobalIncrementKg:  2.5,
		ExerciseSpecific:   map[string]float64{"lateral-raise": 2.5},
	}
	if got := SuggestNextWeight(185, models.UnitLbs, "bench", s); got != 190 {
		t.Errorf("bench = %v, want 190", got)
	}
	if got := SuggestNextWeight(20, models.UnitLbs, "lateral-raise", s); got != 22.5 {
		t.Errorf("lateral-raise = %v, want 22.5", got)
	}
	if got := SuggestNextWeight(100, models.UnitKg, "squat", s); got != 102.5 {
		t.Errorf("squat kg = %v, want 102.5", got)
	}
	if got := SuggestNextWeight(100, models.UnitLbs, "squat", models.ProgressionSettings{}); got != 105 {
		t.Errorf("empty settings = %v, want 105", got)
	}
}
