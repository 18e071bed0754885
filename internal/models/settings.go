package models

import "fmt"

// Unit is the weight unit system used for plate math and increments.
type Unit string

const (
	UnitLbs Unit = "lbs"
	UnitKg  Unit = "kg"
)

// ParseUnit accepts "lbs"/"lb" and "kg"/"kgs".
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "lbs", "lb":
		return UnitLbs, nil
	case "kg", "kgs":
		return UnitKg, nil
	}
	return "", fmt.Errorf("unknown unit %q", s)
}

// ProgressionSettings holds RPT drop-off percentages and weight increments.
// A zero or missing ExerciseSpecific entry means "use the global increment".
type ProgressionSettings struct {
	RPTSet2Percentage  float64            `json:"rptSet2Percentage"`
	RPTSet3Percentage  float64            `json:"rptSet3Percentage"`
	GlobalIncrementLbs float64            `json:"globalIncrementLbs"`
	GlobalIncrementKg  float64            `json:"globalIncrementKg"`
	ExerciseSpecific   map[string]float64 `json:"exerciseSpecific,omitempty"`
}

// Increment returns the weight increment for an exercise in the given unit.
func (s ProgressionSettings) Increment(exerciseID string, unit Unit) float64 {
	if v := s.ExerciseSpecific[exerciseID]; v > 0 {
		return v
	}
	if unit == UnitKg {
		return s.GlobalIncrementKg
	}
	return s.GlobalIncrementLbs
}
