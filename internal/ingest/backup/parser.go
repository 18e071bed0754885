// Package backup reads and writes the full JSON data dump.
package backup

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/claude/rptlog/internal/models"
)

// Backup is every collection a data dump can carry.
type Backup struct {
	Workouts        []models.WorkoutRecord           `json:"workouts"`
	PersonalRecords map[string]models.PersonalRecord `json:"personalRecords"`
	BodyWeight      []models.BodyWeightEntry         `json:"bodyWeight"`
	Exercises       []models.ExerciseTemplate        `json:"exercises"`
	Programmes      []models.Programme               `json:"programmes"`
	Settings        *models.ProgressionSettings      `json:"settings,omitempty"`
	Videos          map[string]string                `json:"videoLinks,omitempty"`
}

// raw keeps every entity undecoded so each can go through the lenient
// legacy decoders.
type raw struct {
	Workouts            []json.RawMessage           `json:"workouts"`
	PersonalRecords     map[string]json.RawMessage  `json:"personalRecords"`
	BodyWeight          []json.RawMessage           `json:"bodyWeight"`
	Exercises           []models.ExerciseTemplate   `json:"exercises"`
	Programmes          []models.Programme          `json:"programmes"`
	Settings            *models.ProgressionSettings `json:"settings"`
	ProgressionSettings *models.ProgressionSettings `json:"progressionSettings"`
	Videos              map[string]string           `json:"videoLinks"`
}

type looseRecord struct {
	ExerciseName string `json:"exerciseName"`
	Weight       any    `json:"weight"`
	Reps         any    `json:"reps"`
	Date         any    `json:"date"`
}

type looseBodyWeight struct {
	Weight any    `json:"weight"`
	Note   string `json:"note"`
	Date   any    `json:"date"`
}

// Parse decodes a data dump. Only structurally invalid JSON is an error;
// individual fields are coerced the same way stored records are.
func Parse(r io.Reader) (*Backup, error) {
	var in raw
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding backup: %w", err)
	}

	b := &Backup{
		PersonalRecords: make(map[string]models.PersonalRecord, len(in.PersonalRecords)),
		Exercises:       in.Exercises,
		Programmes:      in.Programmes,
		Settings:        in.Settings,
		Videos:          in.Videos,
	}
	if b.Settings == nil {
		b.Settings = in.ProgressionSettings
	}

	for i, w := range in.Workouts {
		rec, err := models.DecodeWorkout(w)
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		b.Workouts = append(b.Workouts, rec)
	}
	for key, v := range in.PersonalRecords {
		var lr looseRecord
		if err := json.Unmarshal(v, &lr); err != nil {
			return nil, fmt.Errorf("personal record %s: %w", key, err)
		}
		name := lr.ExerciseName
		if name == "" {
			name = key
		}
		b.PersonalRecords[key] = models.PersonalRecord{
			ExerciseName: name,
			Weight:       models.CoerceFloat(lr.Weight),
			Reps:         models.CoerceInt(lr.Reps),
			Date:         models.CoerceTime(lr.Date),
		}
	}
	for i, v := range in.BodyWeight {
		var lb looseBodyWeight
		if err := json.Unmarshal(v, &lb); err != nil {
			return nil, fmt.Errorf("body weight %d: %w", i, err)
		}
		b.BodyWeight = append(b.BodyWeight, models.BodyWeightEntry{
			Weight: models.CoerceFloat(lb.Weight),
			Note:   lb.Note,
			Date:   models.CoerceTime(lb.Date),
		})
	}
	return b, nil
}

// Write encodes b as indented JSON.
func Write(w io.Writer, b *Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}
	return nil
}
