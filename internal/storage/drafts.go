package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/rptlog/internal/models"
)

type storedDraft struct {
	Type      string          `json:"type"`
	StartedAt any             `json:"startedAt"`
	UpdatedAt any             `json:"updatedAt"`
	Exercises json.RawMessage `json:"exercises"`
}

func decodeDraft(body []byte) (models.Draft, error) {
	var sd storedDraft
	if err := json.Unmarshal(body, &sd); err != nil {
		return models.Draft{}, fmt.Errorf("decoding draft: %w", err)
	}
	d := models.Draft{
		Type:      sd.Type,
		StartedAt: models.CoerceTime(sd.StartedAt),
		UpdatedAt: models.CoerceTime(sd.UpdatedAt),
	}
	if len(sd.Exercises) > 0 && sd.Exercises[0] == '[' {
		ex, err := models.DecodeExercises(sd.Exercises)
		if err != nil {
			return models.Draft{}, err
		}
		d.Exercises = ex
	}
	return d, nil
}

// Draft returns the in-progress session for a programme type.
func (s *Store) Draft(ctx context.Context, typ string) (models.Draft, error) {
	body, err := s.b.get(ctx, colDrafts, typ)
	if err != nil {
		return models.Draft{}, err
	}
	return decodeDraft(body)
}

// SaveDraft replaces the draft for d.Type and stamps its update time.
func (s *Store) SaveDraft(ctx context.Context, d models.Draft) (models.Draft, error) {
	if d.Type == "" {
		return models.Draft{}, fmt.Errorf("draft type is required")
	}
	now := s.now().UTC()
	if d.StartedAt.IsZero() {
		if prev, err := s.Draft(ctx, d.Type); err == nil && !prev.StartedAt.IsZero() {
			d.StartedAt = prev.StartedAt
		} else {
			d.StartedAt = now
		}
	}
	d.UpdatedAt = now
	if d.Exercises == nil {
		d.Exercises = []models.ExerciseEntry{}
	}
	if err := s.putJSON(ctx, colDrafts, d.Type, d.UpdatedAt, d); err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

// ClearDraft removes the draft for typ. Clearing a missing draft is not an error.
func (s *Store) ClearDraft(ctx context.Context, typ string) error {
	if _, err := s.b.delete(ctx, colDrafts, typ); err != nil {
		return fmt.Errorf("clearing draft %s: %w", typ, err)
	}
	return nil
}

// LatestDraft returns the most recently updated draft, or nil when none exist.
func (s *Store) LatestDraft(ctx context.Context) (*models.Draft, error) {
	docs, err := s.b.list(ctx, colDrafts)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	d, err := decodeDraft(docs[0].Body)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
