package analytics

import (
	"sort"
	"time"

	"github.com/claude/rptlog/internal/models"
)

const rankLimit = 2

// ExerciseProgress summarizes the best-weight history of one exercise.
type ExerciseProgress struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Sessions     int       `json:"sessions"`
	FirstWeight  float64   `json:"firstWeight"`
	LastWeight   float64   `json:"lastWeight"`
	AllTimeDelta float64   `json:"allTimeDelta"`
	RecentDelta  float64   `json:"recentDelta"`
	LastDate     time.Time `json:"lastDate"`
}

// ProgressReport is the per-exercise list plus the two ranked extracts.
type ProgressReport struct {
	Exercises      []ExerciseProgress `json:"exercises"`
	MostProgress   []ExerciseProgress `json:"mostProgress"`
	NeedsAttention []ExerciseProgress `json:"needsAttention"`
}

type dataPoint struct {
	date   time.Time
	weight float64
}

// Progress groups every session's best weight per exercise in chronological
// order. Exercises with fewer than two data points are left out, as are
// entries where no set has a positive weight.
func Progress(workouts []models.WorkoutRecord) []ExerciseProgress {
	ordered := make([]models.WorkoutRecord, len(workouts))
	copy(ordered, workouts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date.Before(ordered[j].Date) })

	points := map[string][]dataPoint{}
	names := map[string]string{}
	var keys []string
	for _, w := range ordered {
		session := map[string]float64{}
		var sessionKeys []string
		for _, ex := range w.Exercises {
			key := models.ExerciseKey(ex.ID, ex.Name)
			if key == "" {
				continue
			}
			best, ok := ex.BestWeight()
			if !ok {
				continue
			}
			prev, seen := session[key]
			if !seen {
				sessionKeys = append(sessionKeys, key)
			}
			if !seen || best > prev {
				session[key] = best
			}
			if ex.Name != "" {
				names[key] = ex.Name
			}
		}
		for _, key := range sessionKeys {
			if _, ok := points[key]; !ok {
				keys = append(keys, key)
			}
			points[key] = append(points[key], dataPoint{date: w.Date, weight: session[key]})
		}
	}

	var out []ExerciseProgress
	for _, key := range keys {
		p := points[key]
		if len(p) < 2 {
			continue
		}
		first, last, prev := p[0], p[len(p)-1], p[len(p)-2]
		name := names[key]
		if name == "" {
			name = key
		}
		out = append(out, ExerciseProgress{
			Key:          key,
			Name:         name,
			Sessions:     len(p),
			FirstWeight:  first.weight,
			LastWeight:   last.weight,
			AllTimeDelta: last.weight - first.weight,
			RecentDelta:  last.weight - prev.weight,
			LastDate:     last.date,
		})
	}
	return out
}

// Rank picks the top exercises by positive recent delta (largest first) and
// by negative recent delta (most negative first).
func Rank(progress []ExerciseProgress) (most, attention []ExerciseProgress) {
	for _, p := range progress {
		switch {
		case p.RecentDelta > 0:
			most = append(most, p)
		case p.RecentDelta < 0:
			attention = append(attention, p)
		}
	}
	sort.SliceStable(most, func(i, j int) bool { return most[i].RecentDelta > most[j].RecentDelta })
	sort.SliceStable(attention, func(i, j int) bool { return attention[i].RecentDelta < attention[j].RecentDelta })
	return truncate(most), truncate(attention)
}

// Report runs Progress and Rank together.
func Report(workouts []models.WorkoutRecord) ProgressReport {
	all := Progress(workouts)
	most, attention := Rank(all)
	if all == nil {
		all = []ExerciseProgress{}
	}
	return ProgressReport{Exercises: all, MostProgress: nonNil(most), NeedsAttention: nonNil(attention)}
}

func truncate(p []ExerciseProgress) []ExerciseProgress {
	if len(p) > rankLimit {
		return p[:rankLimit]
	}
	return p
}

func nonNil(p []ExerciseProgress) []ExerciseProgress {
	if p == nil {
		return []ExerciseProgress{}
	}
	return p
}
