package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/claude/rptlog/internal/catalog"
	"github.com/claude/rptlog/internal/models"
)

// Exercises returns the exercise catalogue sorted by name.
func (s *Store) Exercises(ctx context.Context) ([]models.ExerciseTemplate, error) {
	docs, err := s.b.list(ctx, colExercises)
	if err != nil {
		return nil, err
	}
	out := make([]models.ExerciseTemplate, 0, len(docs))
	for _, doc := range docs {
		var ex models.ExerciseTemplate
		if err := json.Unmarshal(doc.Body, &ex); err != nil {
			return nil, fmt.Errorf("decoding exercise %s: %w", doc.ID, err)
		}
		out = append(out, ex)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// SaveExercise creates or replaces a catalogue entry. An empty id becomes
// the slug of the name.
func (s *Store) SaveExercise(ctx context.Context, ex models.ExerciseTemplate) (models.ExerciseTemplate, error) {
	ex.Name = strings.TrimSpace(ex.Name)
	if ex.Name == "" {
		return models.ExerciseTemplate{}, fmt.Errorf("exercise name is required")
	}
	if ex.ID == "" {
		ex.ID = models.Slug(ex.Name)
	}
	if ex.RepScheme == "" {
		ex.RepScheme = models.RepSchemeStraight
	}
	if !ex.RepScheme.Valid() {
		return models.ExerciseTemplate{}, fmt.Errorf("unknown rep scheme %q", ex.RepScheme)
	}
	if err := s.putJSON(ctx, colExercises, ex.ID, time.Time{}, ex); err != nil {
		return models.ExerciseTemplate{}, err
	}
	return ex, nil
}

// DeleteExercise removes a catalogue entry.
func (s *Store) DeleteExercise(ctx context.Context, id string) error {
	return s.remove(ctx, colExercises, id)
}

// Programmes returns all programmes sorted by type.
func (s *Store) Programmes(ctx context.Context) ([]models.Programme, error) {
	docs, err := s.b.list(ctx, colProgrammes)
	if err != nil {
		return nil, err
	}
	out := make([]models.Programme, 0, len(docs))
	for _, doc := range docs {
		var p models.Programme
		if err := json.Unmarshal(doc.Body, &p); err != nil {
			return nil, fmt.Errorf("decoding programme %s: %w", doc.ID, err)
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

// Programme returns the programme with the given type code.
func (s *Store) Programme(ctx context.Context, typ string) (models.Programme, error) {
	var p models.Programme
	if err := s.getJSON(ctx, colProgrammes, typ, &p); err != nil {
		return models.Programme{}, err
	}
	return p, nil
}

// SaveProgramme creates or replaces a programme keyed by its type.
func (s *Store) SaveProgramme(ctx context.Context, p models.Programme) (models.Programme, error) {
	p.Type = strings.TrimSpace(p.Type)
	if p.Type == "" {
		return models.Programme{}, fmt.Errorf("programme type is required")
	}
	if p.Name == "" {
		p.Name = "Workout " + p.Type
	}
	if p.Exercises == nil {
		p.Exercises = []models.ExerciseTemplate{}
	}
	if err := s.putJSON(ctx, colProgrammes, p.Type, time.Time{}, p); err != nil {
		return models.Programme{}, err
	}
	return p, nil
}

// DeleteProgramme removes a programme. Workouts that followed it keep
// their own exercise lists.
func (s *Store) DeleteProgramme(ctx context.Context, typ string) error {
	return s.remove(ctx, colProgrammes, typ)
}

// SeedResult counts the built-in entries written by SeedDefaults.
type SeedResult struct {
	Exercises  int
	Programmes int
}

// SeedDefaults writes the built-in catalogue and programmes into any of
// those collections that is still empty.
func (s *Store) SeedDefaults(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	n, err := s.b.count(ctx, colExercises)
	if err != nil {
		return res, err
	}
	if n == 0 {
		for _, ex := range catalog.Exercises() {
			if _, err := s.SaveExercise(ctx, ex); err != nil {
				return res, fmt.Errorf("seeding exercise %s: %w", ex.ID, err)
			}
			res.Exercises++
		}
	}

	n, err = s.b.count(ctx, colProgrammes)
	if err != nil {
		return res, err
	}
	if n == 0 {
		for _, p := range catalog.Programmes() {
			if _, err := s.SaveProgramme(ctx, p); err != nil {
				return res, fmt.Errorf("seeding programme %s: %w", p.Type, err)
			}
			res.Programmes++
		}
	}
	return res, nil
}
