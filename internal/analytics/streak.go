// Package analytics derives streaks, progress deltas and next-session
// predictions from the full workout history. Everything is recomputed from
// scratch on each call.
package analytics

import (
	"sort"
	"time"

	"github.com/claude/rptlog/internal/models"
)

// StreakMode selects the calendar bucket a streak is counted in.
type StreakMode string

const (
	StreakDaily   StreakMode = "daily"
	StreakWeekly  StreakMode = "weekly"
	StreakMonthly StreakMode = "monthly"
)

// Streaks bundles the three streak counts.
type Streaks struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

// ComputeStreaks returns all three streaks relative to now.
func ComputeStreaks(workouts []models.WorkoutRecord, now time.Time) Streaks {
	return Streaks{
		Daily:   DailyStreak(workouts, now),
		Weekly:  WeeklyStreak(workouts, now),
		Monthly: MonthlyStreak(workouts, now),
	}
}

// Streak dispatches on mode. Unknown modes count daily.
func Streak(workouts []models.WorkoutRecord, mode StreakMode, now time.Time) int {
	switch mode {
	case StreakWeekly:
		return WeeklyStreak(workouts, now)
	case StreakMonthly:
		return MonthlyStreak(workouts, now)
	}
	return DailyStreak(workouts, now)
}

// DailyStreak walks distinct workout days newest first. The i-th day counts
// while it is at most 1+i days before today, so the allowed gap widens as
// the streak grows.
func DailyStreak(workouts []models.WorkoutRecord, now time.Time) int {
	today := startOfDay(now)
	seen := map[time.Time]bool{}
	var days []time.Time
	for _, w := range workouts {
		if w.Date.IsZero() {
			continue
		}
		d := startOfDay(w.Date.In(now.Location()))
		if d.After(today) || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 0
	for i, d := range days {
		if daysBetween(d, today) > 1+i {
			break
		}
		streak++
	}
	return streak
}

// WeeklyStreak counts consecutive Monday-start weeks with a workout,
// walking back from the current week.
func WeeklyStreak(workouts []models.WorkoutRecord, now time.Time) int {
	return bucketStreak(workouts, now, startOfWeek, func(t time.Time) time.Time { return t.AddDate(0, 0, -7) })
}

// MonthlyStreak counts consecutive calendar months with a workout, walking
// back from the current month.
func MonthlyStreak(workouts []models.WorkoutRecord, now time.Time) int {
	return bucketStreak(workouts, now, startOfMonth, func(t time.Time) time.Time { return t.AddDate(0, -1, 0) })
}

func bucketStreak(workouts []models.WorkoutRecord, now time.Time, bucket, prev func(time.Time) time.Time) int {
	present := map[time.Time]bool{}
	for _, w := range workouts {
		if w.Date.IsZero() {
			continue
		}
		present[bucket(w.Date.In(now.Location()))] = true
	}
	streak := 0
	for cur := bucket(now); present[cur]; cur = prev(cur) {
		streak++
	}
	return streak
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday of t's ISO week.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b. A 23h or 25h DST day still
// counts as one.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
