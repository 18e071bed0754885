package analytics

import (
	"time"

	"github.com/claude/rptlog/internal/models"
)

// Summary is the dashboard headline numbers.
type Summary struct {
	TotalWorkouts     int      `json:"totalWorkouts"`
	WorkoutsThisWeek  int      `json:"workoutsThisWeek"`
	WorkoutsThisMonth int      `json:"workoutsThisMonth"`
	TotalSets         int      `json:"totalSets"`
	TotalVolume       float64  `json:"totalVolume"`
	LatestBodyWeight  *float64 `json:"latestBodyWeight,omitempty"`
	BodyWeightChange  *float64 `json:"bodyWeightChange,omitempty"`
	Streaks           Streaks  `json:"streaks"`
}

// Summarize computes the summary. bodyWeights must be newest first.
func Summarize(workouts []models.WorkoutRecord, bodyWeights []models.BodyWeightEntry, now time.Time) Summary {
	s := Summary{
		TotalWorkouts: len(workouts),
		Streaks:       ComputeStreaks(workouts, now),
	}
	week, month := startOfWeek(now), startOfMonth(now)
	for _, w := range workouts {
		s.TotalSets += w.SetCount()
		for _, ex := range w.Exercises {
			s.TotalVolume += ex.Volume()
		}
		if w.Date.IsZero() {
			continue
		}
		d := w.Date.In(now.Location())
		if d.After(now) {
			continue
		}
		if !d.Before(week) {
			s.WorkoutsThisWeek++
		}
		if !d.Before(month) {
			s.WorkoutsThisMonth++
		}
	}
	if len(bodyWeights) > 0 {
		latest := bodyWeights[0].Weight
		s.LatestBodyWeight = &latest
		if len(bodyWeights) > 1 {
			change := latest - bodyWeights[1].Weight
			s.BodyWeightChange = &change
		}
	}
	return s
}
