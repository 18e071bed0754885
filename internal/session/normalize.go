// Package session turns programme templates and saved workouts into the
// editable rows of a logging session, and back.
package session

import (
	"math"

	"github.com/claude/rptlog/internal/models"
)

// Bounds and defaults applied when normalizing templates and logged sets.
const (
	MinSets         = 1
	MaxSets         = 12
	DefaultSets     = 3
	DefaultGoalReps = 8
	MaxGoalReps     = 200 // per-set goal cap
	MaxReps         = 999 // logged reps cap
)

// ClampSetCount bounds a set count to [MinSets, MaxSets].
func ClampSetCount(n int) int {
	return clamp(n, MinSets, MaxSets)
}

// NormalizeSets returns exactly n sets (n is clamped first). Existing sets
// keep their position, missing ones are blank and extras are dropped. Each
// field is coerced to a valid value, so normalizing twice is a no-op.
func NormalizeSets(sets []models.SetRecord, n int) []models.SetRecord {
	n = ClampSetCount(n)
	out := make([]models.SetRecord, n)
	for i := 0; i < n && i < len(sets); i++ {
		out[i] = normalizeSet(sets[i])
	}
	return out
}

func normalizeSet(s models.SetRecord) models.SetRecord {
	w := s.Weight
	if math.IsNaN(w) || math.IsInf(w, 0) {
		w = 0
	}
	return models.SetRecord{
		Weight:    w,
		Reps:      clamp(s.Reps, 0, MaxReps),
		Completed: s.Completed,
	}
}

// NormalizeGoalReps truncates or pads goal reps to n entries, each within
// [1, MaxGoalReps]; non-positive entries and padding use DefaultGoalReps.
func NormalizeGoalReps(goalReps []int, n int) []int {
	n = ClampSetCount(n)
	out := make([]int, n)
	for i := range out {
		r := DefaultGoalReps
		if i < len(goalReps) && goalReps[i] > 0 {
			r = min(goalReps[i], MaxGoalReps)
		}
		out[i] = r
	}
	return out
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
