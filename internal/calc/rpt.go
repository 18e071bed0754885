// Package calc holds the weight and rep arithmetic used while logging a
// session: RPT back-off sets, warm-up ramps, plate loading and progression.
package calc

import (
	"math"

	"github.com/claude/rptlog/internal/models"
)

const (
	// DefaultSet2Percentage and DefaultSet3Percentage apply when no
	// progression settings are available.
	DefaultSet2Percentage = 90
	DefaultSet3Percentage = 80

	plateStep = 2.5
)

// RoundToStep rounds w to the nearest multiple of step.
func RoundToStep(w, step float64) float64 {
	if step <= 0 {
		return w
	}
	return math.Round(w/step) * step
}

// CalculateRPTWeights returns the working weight for setNumber given the
// top set. Set 1 and sets past 3 return the top set unchanged.
func CalculateRPTWeights(topSetWeight float64, setNumber int, settings *models.ProgressionSettings) float64 {
	pct2, pct3 := float64(DefaultSet2Percentage), float64(DefaultSet3Percentage)
	if settings != nil {
		if settings.RPTSet2Percentage > 0 {
			pct2 = settings.RPTSet2Percentage
		}
		if settings.RPTSet3Percentage > 0 {
			pct3 = settings.RPTSet3Percentage
		}
	}
	switch setNumber {
	case 2:
		return RoundToStep(topSetWeight*pct2/100, plateStep)
	case 3:
		return RoundToStep(topSetWeight*pct3/100, plateStep)
	}
	return topSetWeight
}

// WarmupSet is one step of the warm-up ramp before the top set.
type WarmupSet struct {
	Percent float64 `json:"percent"`
	Weight  float64 `json:"weight"`
	Reps    int     `json:"reps"`
}

var warmupRamp = []struct {
	pct  float64
	reps int
}{
	{50, 6},
	{70, 5},
	{80, 3},
}

// CalculateWarmupWeights returns the fixed three-step ramp for a top set.
func CalculateWarmupWeights(topSetWeight float64) []WarmupSet {
	sets := make([]WarmupSet, len(warmupRamp))
	for i, step := range warmupRamp {
		sets[i] = WarmupSet{
			Percent: step.pct,
			Weight:  RoundToStep(topSetWeight*step.pct/100, plateStep),
			Reps:    step.reps,
		}
	}
	return sets
}

// ShouldLevelUp reports whether the goal reps were reached, which is the
// signal to suggest a heavier top set next time.
func ShouldLevelUp(completedReps, goalReps int) bool {
	return completedReps >= goalReps
}

// SuggestNextWeight adds the exercise's progression increment to the top set.
func SuggestNextWeight(topSetWeight float64, unit models.Unit, exerciseID string, settings models.ProgressionSettings) float64 {
	inc := settings.Increment(exerciseID, unit)
	if inc <= 0 {
		inc = defaultIncrement(unit)
	}
	return topSetWeight + inc
}

func defaultIncrement(unit models.Unit) float64 {
	if unit == models.UnitKg {
		return 2.5
	}
	return 5
}
