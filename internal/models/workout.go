package models

import "time"

// SetRecord is one performed (or planned) working set.
type SetRecord struct {
	Weight    float64 `json:"weight"`
	Reps      int     `json:"reps"`
	Completed bool    `json:"completed"`
}

// ExerciseEntry is one exercise inside a saved workout.
type ExerciseEntry struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	RepScheme RepScheme   `json:"repScheme"`
	Sets      []SetRecord `json:"sets"`
	Notes     string      `json:"notes"`
}

// BestWeight returns the heaviest weight across the entry's sets and whether
// any set carried a positive weight at all.
func (e ExerciseEntry) BestWeight() (float64, bool) {
	var best float64
	found := false
	for _, s := range e.Sets {
		if s.Weight > 0 && (!found || s.Weight > best) {
			best = s.Weight
			found = true
		}
	}
	return best, found
}

// Volume returns the sum of weight*reps over completed sets.
func (e ExerciseEntry) Volume() float64 {
	var v float64
	for _, s := range e.Sets {
		if s.Completed {
			v += s.Weight * float64(s.Reps)
		}
	}
	return v
}

// WorkoutRecord is a persisted session that followed a programme type.
// A zero Date means the stored date could not be parsed.
type WorkoutRecord struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Date      time.Time       `json:"date"`
	Exercises []ExerciseEntry `json:"exercises"`
}

// SetCount returns the total number of sets logged in the workout.
func (w WorkoutRecord) SetCount() int {
	n := 0
	for _, ex := range w.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// WorkoutPatch is a partial update. Nil fields are left unchanged.
type WorkoutPatch struct {
	Type      *string         `json:"type,omitempty"`
	Date      *time.Time      `json:"date,omitempty"`
	Exercises []ExerciseEntry `json:"exercises,omitempty"`
}

// Apply merges the patch into w.
func (p WorkoutPatch) Apply(w *WorkoutRecord) {
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Exercises != nil {
		w.Exercises = p.Exercises
	}
}

// Draft is an in-progress session kept apart from completed history.
// There is at most one draft per programme type.
type Draft struct {
	Type      string          `json:"type"`
	StartedAt time.Time       `json:"startedAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Exercises []ExerciseEntry `json:"exercises"`
}
