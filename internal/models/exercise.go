package models

// RepScheme tags the training style of an exercise. It only decides which
// auto-calculation applies; it carries no arithmetic of its own.
type RepScheme string

const (
	RepSchemeRPT       RepScheme = "rpt"
	RepSchemeRestPause RepScheme = "rest-pause"
	RepSchemeStraight  RepScheme = "straight"
	RepSchemeKino      RepScheme = "kino"
)

// Valid reports whether s is one of the known rep schemes.
func (s RepScheme) Valid() bool {
	switch s {
	case RepSchemeRPT, RepSchemeRestPause, RepSchemeStraight, RepSchemeKino:
		return true
	}
	return false
}

// ExerciseTemplate is a planned exercise in the catalogue or a programme.
type ExerciseTemplate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sets      int       `json:"sets"`
	RepScheme RepScheme `json:"repScheme"`
	GoalReps  []int     `json:"goalReps"`
	RestTime  int       `json:"restTime"`
	Notes     string    `json:"notes"`
}

// Programme is a named, ordered list of exercises for one workout day.
type Programme struct {
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	Focus     string             `json:"focus"`
	Exercises []ExerciseTemplate `json:"exercises"`
}
