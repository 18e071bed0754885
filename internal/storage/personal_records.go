package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/records"
)

type storedRecord struct {
	ExerciseName string `json:"exerciseName"`
	Weight       any    `json:"weight"`
	Reps         any    `json:"reps"`
	Date         any    `json:"date"`
}

// PersonalRecords returns every stored record keyed by exercise key.
// Legacy keys that are display names are returned unchanged.
func (s *Store) PersonalRecords(ctx context.Context) (map[string]models.PersonalRecord, error) {
	docs, err := s.b.list(ctx, colPersonalRecords)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.PersonalRecord, len(docs))
	for _, doc := range docs {
		var sr storedRecord
		if err := json.Unmarshal(doc.Body, &sr); err != nil {
			return nil, fmt.Errorf("decoding personal record %s: %w", doc.ID, err)
		}
		out[doc.ID] = models.PersonalRecord{
			ExerciseName: sr.ExerciseName,
			Weight:       models.CoerceFloat(sr.Weight),
			Reps:         models.CoerceInt(sr.Reps),
			Date:         models.CoerceTime(sr.Date),
		}
	}
	return out, nil
}

// PutPersonalRecord writes rec under key unconditionally.
func (s *Store) PutPersonalRecord(ctx context.Context, key string, rec models.PersonalRecord) error {
	return s.putJSON(ctx, colPersonalRecords, key, rec.Date, rec)
}

// UpdatePersonalRecord stores a completed set as the new record for the
// exercise when its weight is strictly greater than the stored one.
func (s *Store) UpdatePersonalRecord(ctx context.Context, exerciseID, exerciseName string, weight float64, reps int) (bool, error) {
	ev, err := s.tracker.Complete(ctx, exerciseID, exerciseName, weight, reps)
	if err != nil {
		return false, err
	}
	return ev.New, nil
}

// Tracker returns the record tracker bound to this store.
func (s *Store) Tracker() *records.Tracker {
	return s.tracker
}
