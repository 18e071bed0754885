package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/rptlog/internal/models"
	"github.com/google/uuid"
)

type storedBodyWeight struct {
	ID     any    `json:"id"`
	Weight any    `json:"weight"`
	Note   string `json:"note"`
	Date   any    `json:"date"`
}

// BodyWeights returns the body weight log, newest first.
func (s *Store) BodyWeights(ctx context.Context) ([]models.BodyWeightEntry, error) {
	docs, err := s.b.list(ctx, colBodyWeight)
	if err != nil {
		return nil, err
	}
	out := make([]models.BodyWeightEntry, 0, len(docs))
	for _, doc := range docs {
		var sb storedBodyWeight
		if err := json.Unmarshal(doc.Body, &sb); err != nil {
			return nil, fmt.Errorf("decoding body weight %s: %w", doc.ID, err)
		}
		out = append(out, models.BodyWeightEntry{
			ID:     doc.ID,
			Weight: models.CoerceFloat(sb.Weight),
			Note:   sb.Note,
			Date:   models.CoerceTime(sb.Date),
		})
	}
	return out, nil
}

// AddBodyWeight appends an entry, assigning its id and defaulting its date
// to now.
func (s *Store) AddBodyWeight(ctx context.Context, e models.BodyWeightEntry) (models.BodyWeightEntry, error) {
	if e.Weight <= 0 {
		return models.BodyWeightEntry{}, fmt.Errorf("body weight must be positive")
	}
	e.ID = uuid.NewString()
	if e.Date.IsZero() {
		e.Date = s.now().UTC()
	}
	if err := s.putJSON(ctx, colBodyWeight, e.ID, e.Date, e); err != nil {
		return models.BodyWeightEntry{}, err
	}
	return e, nil
}

// AppendBodyWeights stores imported entries under fresh ids.
func (s *Store) AppendBodyWeights(ctx context.Context, es []models.BodyWeightEntry) (int, error) {
	docs := make([]document, 0, len(es))
	for _, e := range es {
		if e.Weight <= 0 {
			continue
		}
		e.ID = uuid.NewString()
		if e.Date.IsZero() {
			e.Date = s.now().UTC()
		}
		body, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("encoding body weight: %w", err)
		}
		docs = append(docs, document{ID: e.ID, SortAt: e.Date, Body: body})
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := s.b.putAll(ctx, colBodyWeight, docs); err != nil {
		return 0, fmt.Errorf("appending body weight: %w", err)
	}
	return len(docs), nil
}

// DeleteBodyWeight removes one entry.
func (s *Store) DeleteBodyWeight(ctx context.Context, id string) error {
	return s.remove(ctx, colBodyWeight, id)
}
