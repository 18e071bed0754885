package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/claude/rptlog/internal/models"
)

type stubStore struct {
	recs   map[string]models.PersonalRecord
	puts   int
	getErr error
	putErr error
}

func (s *stubStore) PersonalRecords(_ context.Context) (map[string]models.PersonalRecord, error) {
	return s.recs, s.getErr
}

func (s *stubStore) PutPersonalRecord(_ context.Context, key string, rec models.PersonalRecord) error {
	if s.putErr != nil {
		return s.putErr
	}
	if s.recs == nil {
		s.recs = map[string]models.PersonalRecord{}
	}
	s.recs[key] = rec
	s.puts++
	return nil
}

var fixedNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestTracker(store *stubStore) *Tracker {
	tr := NewTracker(store)
	tr.now = func() time.Time { return fixedNow }
	return tr
}

// TestCompleteFirstRecord verifies the first completed set creates a record.
func TestCompleteFirstRecord(t *testing.T) {
	store := &stubStore{}
	ev, err := newTestTracker(store).Complete(context.Background(), "bench", "Bench", 185, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.New || ev.OldWeight != 0 || ev.NewWeight != 185 {
		t.Errorf("event = %+v, want new 0 -> 185", ev)
	}
	rec := store.recs["bench"]
	if rec.Weight != 185 || rec.Reps != 6 || !rec.Date.Equal(fixedNow) || rec.ExerciseName != "Bench" {
		t.Errorf("stored = %+v", rec)
	}
}

// TestCompleteStrictlyGreater verifies equal weight is not a record and
// heavier weight is.
func TestCompleteStrictlyGreater(t *testing.T) {
	store := &stubStore{recs: map[string]models.PersonalRecord{
		"bench": {ExerciseName: "Bench", Weight: 185, Reps: 6},
	}}
	tr := newTestTracker(store)

	ev, err := tr.Complete(context.Background(), "bench", "Bench", 185, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.New || store.puts != 0 || store.recs["bench"].Reps != 6 {
		t.Errorf("equal weight should not update: event %+v, puts %d", ev, store.puts)
	}

	ev, err = tr.Complete(context.Background(), "bench", "Bench", 190, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ev.New || ev.OldWeight != 185 || store.recs["bench"].Weight != 190 {
		t.Errorf("heavier weight should update: event %+v, stored %+v", ev, store.recs["bench"])
	}
}

// TestCompleteLegacyNameLookup verifies records stored under a display name
// are found when the id misses.
func TestCompleteLegacyNameLookup(t *testing.T) {
	store := &stubStore{recs: map[string]models.PersonalRecord{
		"Incline Bench": {ExerciseName: "Incline Bench", Weight: 200},
	}}
	ev, err := newTestTracker(store).Complete(context.Background(), "incline-bench", "incline bench", 195, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.New || ev.OldWeight != 200 {
		t.Errorf("event = %+v, want not new with old 200", ev)
	}
}

// TestCompleteZeroWeight verifies weightless sets never become records.
func TestCompleteZeroWeight(t *testing.T) {
	store := &stubStore{}
	ev, err := newTestTracker(store).Complete(context.Background(), "dips", "Dips", 0, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.New || store.puts != 0 {
		t.Errorf("zero weight created a record: %+v", ev)
	}
}

// TestCompleteStoreErrors verifies storage failures are wrapped and returned.
func TestCompleteStoreErrors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := newTestTracker(&stubStore{getErr: boom}).Complete(context.Background(), "a", "A", 1, 1); !errors.Is(err, boom) {
		t.Errorf("get error = %v, want wrapped boom", err)
	}
	if _, err := newTestTracker(&stubStore{putErr: boom}).Complete(context.Background(), "a", "A", 1, 1); !errors.Is(err, boom) {
		t.Errorf("put error = %v, want wrapped boom", err)
	}
}

// TestCompleteWorkout verifies only the top completed set per exercise is checked.
func TestCompleteWorkout(t *testing.T) {
	store := &stubStore{recs: map[string]models.PersonalRecord{
		"squat": {ExerciseName: "Squat", Weight: 300},
	}}
	w := models.WorkoutRecord{Exercises: []models.ExerciseEntry{
		{ID: "bench", Name: "Bench", Sets: []models.SetRecord{
			{Weight: 225, Reps: 3},
			{Weight: 185, Reps: 6, Completed: true},
			{Weight: 165, Reps: 8, Completed: true},
		}},
		{ID: "squat", Name: "Squat", Sets: []models.SetRecord{{Weight: 295, Reps: 5, Completed: true}}},
		{ID: "curl", Name: "Curl", Sets: []models.SetRecord{{Weight: 40, Reps: 10}}},
	}}
	events, err := newTestTracker(store).CompleteWorkout(context.Background(), w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].ExerciseID != "bench" || events[0].NewWeight != 185 {
		t.Errorf("events = %+v, want one bench 185", events)
	}
}

// TestLookupNameFallback verifies the name fallback skips records keyed by
// another exercise's id and resolves duplicate legacy names by key order.
func TestLookupNameFallback(t *testing.T) {
	recs := map[string]models.PersonalRecord{
		"incline-bench-press": {ExerciseName: "Incline Bench", Weight: 225},
		"Incline Bench (old)": {ExerciseName: "Incline Bench", Weight: 185},
		"Incline Bench":       {ExerciseName: "Incline Bench", Weight: 200},
		"squat":               {ExerciseName: "Squat", Weight: 300},
	}

	tests := []struct {
		name       string
		id         string
		exercise   string
		wantWeight float64
		wantFound  bool
	}{
		{"id hit", "incline-bench-press", "Incline Bench", 225, true},
		{"exact name key", "incline-db", "Incline Bench", 200, true},
		{"first legacy key by order", "incline-db", "incline bench", 200, true},
		{"slug key without id", "", "Squat", 300, true},
		{"other id not matched", "front-squat", "squat", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20; i++ {
				rec, found := Lookup(recs, tt.id, tt.exercise)
				if found != tt.wantFound || rec.Weight != tt.wantWeight {
					t.Fatalf("Lookup(%q, %q) = %v, %v; want %v, %v", tt.id, tt.exercise, rec.Weight, found, tt.wantWeight, tt.wantFound)
				}
			}
		})
	}
}
