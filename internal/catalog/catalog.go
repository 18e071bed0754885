// Package catalog holds the built-in exercise catalogue and the default
// reverse-pyramid programmes seeded into an empty store.
package catalog

import "github.com/claude/rptlog/internal/models"

var defaultExercises = []models.ExerciseTemplate{
	{ID: "incline-bench-press", Name: "Incline Bench Press", Sets: 3, RepScheme: models.RepSchemeRPT, GoalReps: []int{6, 8, 10}, RestTime: 180},
	{ID: "flat-bench-press", Name: "Flat Bench Press", Sets: 3, RepScheme: models.RepSchemeRPT, GoalReps: []int{6, 8, 10}, RestTime: 180},
	{ID: "weighted-chin-ups", Name: "Weighted Chin-ups", Sets: 3, RepScheme: models.RepSchemeRPT, GoalReps: []int{6, 8, 10}, RestTime: 180},
	{ID: "overhead-press", Name: "Overhead Press", Sets: 3, RepScheme: models.RepSchemeRPT, GoalReps: []int{6, 8, 10}, RestTime: 180},
	{ID: "squat", Name: "Squat", Sets: 3, RepScheme: models.RepSchemeRPT, GoalReps: []int{6, 8, 10}, RestTime: 180},
	{ID: "deadlift", Name: "Deadlift", Sets: 2, RepScheme: models.RepSchemeRPT, GoalReps: []int{5, 7}, RestTime: 240},
	{ID: "bulgarian-split-squat", Name: "Bulgarian Split Squat", Sets: 3, RepScheme: models.RepSchemeStraight, GoalReps: []int{10, 10, 10}, RestTime: 90},
	{ID: "lateral-raises", Name: "Lateral Raises", Sets: 3, RepScheme: models.RepSchemeRestPause, GoalReps: []int{12, 4, 4}, RestTime: 60},
	{ID: "tricep-extensions", Name: "Tricep Extensions", Sets: 3, RepScheme: models.RepSchemeStraight, GoalReps: []int{10, 10, 10}, RestTime: 90},
	{ID: "hanging-leg-raises", Name: "Hanging Leg Raises", Sets: 3, RepScheme: models.RepSchemeStraight, GoalReps: []int{12, 12, 12}, RestTime: 60},
	{ID: "face-pulls", Name: "Face Pulls", Sets: 3, RepScheme: models.RepSchemeKino, GoalReps: []int{15, 15, 15}, RestTime: 60},
}

// defaultProgrammes lists the catalogue ids making up each default programme.
var defaultProgrammes = []struct {
	Type, Name, Focus string
	IDs               []string
}{
	{"A", "Workout A", "Chest & Shoulders", []string{"incline-bench-press", "overhead-press", "lateral-raises", "tricep-extensions", "face-pulls"}},
	{"B", "Workout B", "Back & Legs", []string{"weighted-chin-ups", "squat", "deadlift", "bulgarian-split-squat", "hanging-leg-raises"}},
}

// Exercises returns a fresh copy of the built-in catalogue.
func Exercises() []models.ExerciseTemplate {
	out := make([]models.ExerciseTemplate, len(defaultExercises))
	for i, ex := range defaultExercises {
		out[i] = clone(ex)
	}
	return out
}

// Programmes returns fresh copies of the default programmes.
func Programmes() []models.Programme {
	byID := make(map[string]models.ExerciseTemplate, len(defaultExercises))
	for _, ex := range defaultExercises {
		byID[ex.ID] = ex
	}
	out := make([]models.Programme, 0, len(defaultProgrammes))
	for _, p := range defaultProgrammes {
		prog := models.Programme{Type: p.Type, Name: p.Name, Focus: p.Focus}
		for _, id := range p.IDs {
			prog.Exercises = append(prog.Exercises, clone(byID[id]))
		}
		out = append(out, prog)
	}
	return out
}

// Rotation is the default order programmes alternate in.
func Rotation() []string {
	out := make([]string, len(defaultProgrammes))
	for i, p := range defaultProgrammes {
		out[i] = p.Type
	}
	return out
}

func clone(ex models.ExerciseTemplate) models.ExerciseTemplate {
	ex.GoalReps = append([]int(nil), ex.GoalReps...)
	return ex
}
