package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/rptlog/internal/models"
	"github.com/google/uuid"
)

// Workouts returns every saved workout, most recent first.
func (s *Store) Workouts(ctx context.Context) ([]models.WorkoutRecord, error) {
	docs, err := s.b.list(ctx, colWorkouts)
	if err != nil {
		return nil, err
	}
	out := make([]models.WorkoutRecord, 0, len(docs))
	for _, doc := range docs {
		w, err := models.DecodeWorkout(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("workout %s: %w", doc.ID, err)
		}
		if w.ID == "" {
			w.ID = doc.ID
		}
		out = append(out, w)
	}
	return out, nil
}

// Workout returns one workout by id.
func (s *Store) Workout(ctx context.Context, id string) (models.WorkoutRecord, error) {
	body, err := s.b.get(ctx, colWorkouts, id)
	if err != nil {
		return models.WorkoutRecord{}, err
	}
	w, err := models.DecodeWorkout(body)
	if err != nil {
		return models.WorkoutRecord{}, fmt.Errorf("workout %s: %w", id, err)
	}
	if w.ID == "" {
		w.ID = id
	}
	return w, nil
}

// SaveWorkout stores w, assigning an id when empty and the current time
// when its date is zero. It returns the stored record.
func (s *Store) SaveWorkout(ctx context.Context, w models.WorkoutRecord) (models.WorkoutRecord, error) {
	s.prepareWorkout(&w)
	if err := s.putJSON(ctx, colWorkouts, w.ID, w.Date, w); err != nil {
		return models.WorkoutRecord{}, err
	}
	return w, nil
}

// UpdateWorkout applies patch to an existing workout.
func (s *Store) UpdateWorkout(ctx context.Context, id string, patch models.WorkoutPatch) (models.WorkoutRecord, error) {
	w, err := s.Workout(ctx, id)
	if err != nil {
		return models.WorkoutRecord{}, err
	}
	patch.Apply(&w)
	w.ID = id
	if err := s.putJSON(ctx, colWorkouts, id, w.Date, w); err != nil {
		return models.WorkoutRecord{}, err
	}
	return w, nil
}

// DeleteWorkout removes a workout. It returns ErrNotFound for unknown ids.
func (s *Store) DeleteWorkout(ctx context.Context, id string) error {
	return s.remove(ctx, colWorkouts, id)
}

// AppendWorkouts stores imported workouts in one transaction, always under
// fresh ids so existing history is never replaced.
func (s *Store) AppendWorkouts(ctx context.Context, ws []models.WorkoutRecord) ([]models.WorkoutRecord, error) {
	if len(ws) == 0 {
		return nil, nil
	}
	docs := make([]document, 0, len(ws))
	out := make([]models.WorkoutRecord, 0, len(ws))
	for _, w := range ws {
		w.ID = ""
		s.prepareWorkout(&w)
		body, err := json.Marshal(w)
		if err != nil {
			return nil, fmt.Errorf("encoding workout: %w", err)
		}
		docs = append(docs, document{ID: w.ID, SortAt: w.Date, Body: body})
		out = append(out, w)
	}
	if err := s.b.putAll(ctx, colWorkouts, docs); err != nil {
		return nil, fmt.Errorf("appending workouts: %w", err)
	}
	return out, nil
}

// LastWorkoutOfType returns the most recent workout that followed typ.
func (s *Store) LastWorkoutOfType(ctx context.Context, typ string) (models.WorkoutRecord, error) {
	ws, err := s.Workouts(ctx)
	if err != nil {
		return models.WorkoutRecord{}, err
	}
	for _, w := range ws {
		if w.Type == typ {
			return w, nil
		}
	}
	return models.WorkoutRecord{}, ErrNotFound
}

func (s *Store) prepareWorkout(w *models.WorkoutRecord) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.Date.IsZero() {
		w.Date = s.now().UTC()
	}
	if w.Exercises == nil {
		w.Exercises = []models.ExerciseEntry{}
	}
}
