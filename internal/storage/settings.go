package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/rptlog/internal/models"
)

const progressionKey = "progression"

// ProgressionSettings returns the stored settings with any unset or
// non-positive field taken from defaults.
func (s *Store) ProgressionSettings(ctx context.Context, defaults models.ProgressionSettings) (models.ProgressionSettings, error) {
	var stored models.ProgressionSettings
	err := s.getJSON(ctx, colSettings, progressionKey, &stored)
	if errors.Is(err, ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		return models.ProgressionSettings{}, fmt.Errorf("loading progression settings: %w", err)
	}
	return mergeSettings(stored, defaults), nil
}

// UpdateProgressionSettings replaces the stored settings.
func (s *Store) UpdateProgressionSettings(ctx context.Context, ps models.ProgressionSettings) error {
	if ps.RPTSet2Percentage < 0 || ps.RPTSet2Percentage > 100 ||
		ps.RPTSet3Percentage < 0 || ps.RPTSet3Percentage > 100 {
		return fmt.Errorf("rpt percentages must be within 0-100")
	}
	if ps.GlobalIncrementLbs < 0 || ps.GlobalIncrementKg < 0 {
		return fmt.Errorf("increments must not be negative")
	}
	return s.putJSON(ctx, colSettings, progressionKey, time.Time{}, ps)
}

func mergeSettings(stored, defaults models.ProgressionSettings) models.ProgressionSettings {
	if stored.RPTSet2Percentage <= 0 {
		stored.RPTSet2Percentage = defaults.RPTSet2Percentage
	}
	if stored.RPTSet3Percentage <= 0 {
		stored.RPTSet3Percentage = defaults.RPTSet3Percentage
	}
	if stored.GlobalIncrementLbs <= 0 {
		stored.GlobalIncrementLbs = defaults.GlobalIncrementLbs
	}
	if stored.GlobalIncrementKg <= 0 {
		stored.GlobalIncrementKg = defaults.GlobalIncrementKg
	}
	if len(stored.ExerciseSpecific) == 0 {
		stored.ExerciseSpecific = defaults.ExerciseSpecific
	}
	return stored
}
