// Package records decides when a completed set is a new personal record.
package records

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/rptlog/internal/models"
)

// Store is the slice of storage the tracker needs.
type Store interface {
	PersonalRecords(ctx context.Context) (map[string]models.PersonalRecord, error)
	PutPersonalRecord(ctx context.Context, key string, rec models.PersonalRecord) error
}

// Event reports the outcome of a completed set. OldWeight is zero when the
// exercise had no record yet.
type Event struct {
	ExerciseID   string  `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	New          bool    `json:"new"`
	OldWeight    float64 `json:"oldWeight"`
	NewWeight    float64 `json:"newWeight"`
	Reps         int     `json:"reps"`
}

// Tracker compares completed sets against stored records.
type Tracker struct {
	store Store
	now   func() time.Time
}

// NewTracker creates a Tracker over store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// Lookup finds the stored record for an exercise: by id first, then by
// display name for records saved before ids existed. The name fallback
// only considers keys that are not another exercise's id, in sorted key
// order.
func Lookup(recs map[string]models.PersonalRecord, exerciseID, exerciseName string) (models.PersonalRecord, bool) {
	if key := models.ExerciseKey(exerciseID, exerciseName); key != "" {
		if rec, ok := recs[key]; ok {
			return rec, true
		}
	}
	name := strings.ToLower(strings.TrimSpace(exerciseName))
	if name == "" {
		return models.PersonalRecord{}, false
	}
	if rec, ok := recs[exerciseName]; ok && exerciseName != models.Slug(exerciseName) {
		return rec, true
	}

	keys := make([]string, 0, len(recs))
	for k := range recs {
		if k == models.Slug(k) {
			continue // id-shaped key of some other exercise
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.ToLower(strings.TrimSpace(recs[k].ExerciseName)) == name {
			return recs[k], true
		}
	}
	return models.PersonalRecord{}, false
}

// Beats reports whether weight should replace existing. Only a strictly
// heavier weight does.
func Beats(weight float64, existing models.PersonalRecord, found bool) bool {
	if weight <= 0 {
		return false
	}
	return !found || weight > existing.Weight
}

// Complete records a completed set and writes a new record when it beats
// the stored one. Sets without a positive weight never create a record.
func (t *Tracker) Complete(ctx context.Context, exerciseID, exerciseName string, weight float64, reps int) (Event, error) {
	ev := Event{
		ExerciseID:   exerciseID,
		ExerciseName: exerciseName,
		NewWeight:    weight,
		Reps:         reps,
	}
	recs, err := t.store.PersonalRecords(ctx)
	if err != nil {
		return ev, fmt.Errorf("loading personal records: %w", err)
	}
	existing, found := Lookup(recs, exerciseID, exerciseName)
	if found {
		ev.OldWeight = existing.Weight
	}
	if !Beats(weight, existing, found) {
		return ev, nil
	}

	key := models.ExerciseKey(exerciseID, exerciseName)
	rec := models.PersonalRecord{
		ExerciseName: exerciseName,
		Weight:       weight,
		Reps:         reps,
		Date:         t.now(),
	}
	if err := t.store.PutPersonalRecord(ctx, key, rec); err != nil {
		return ev, fmt.Errorf("saving personal record %s: %w", key, err)
	}
	ev.New = true
	return ev, nil
}

// CompleteWorkout runs Complete for the top completed set of every
// exercise in w and returns the new-record events.
func (t *Tracker) CompleteWorkout(ctx context.Context, w models.WorkoutRecord) ([]Event, error) {
	var events []Event
	for _, ex := range w.Exercises {
		var top *models.SetRecord
		for i := range ex.Sets {
			s := &ex.Sets[i]
			if s.Completed && (top == nil || s.Weight > top.Weight) {
				top = s
			}
		}
		if top == nil {
			continue
		}
		ev, err := t.Complete(ctx, ex.ID, ex.Name, top.Weight, top.Reps)
		if err != nil {
			return events, err
		}
		if ev.New {
			events = append(events, ev)
		}
	}
	return events, nil
}
