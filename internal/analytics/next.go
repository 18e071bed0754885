package analytics

import (
	"time"

	"github.com/claude/rptlog/internal/models"
)

// DefaultFirstType is predicted when there is no history at all.
const DefaultFirstType = "A"

// NextWorkoutType predicts which programme to run next. A draft started
// today wins; otherwise the most recent workout's type is flipped between
// A and B; other types advance through rotation. workouts must be most
// recent first.
func NextWorkoutType(draft *models.Draft, workouts []models.WorkoutRecord, rotation []string, now time.Time) string {
	if draft != nil && draft.Type != "" && sameDay(draft.UpdatedAt, now) {
		return draft.Type
	}
	if len(workouts) == 0 {
		return DefaultFirstType
	}
	last := workouts[0].Type
	switch last {
	case "A":
		return "B"
	case "B":
		return "A"
	}
	for i, t := range rotation {
		if t == last {
			return rotation[(i+1)%len(rotation)]
		}
	}
	if len(rotation) > 0 {
		return rotation[0]
	}
	return DefaultFirstType
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() {
		return false
	}
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
