package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Older saves used several spellings for the same set field. The first
// key present wins.
var (
	weightKeys    = []string{"weight", "w", "load", "kg", "lbs"}
	repsKeys      = []string{"reps", "r", "repetitions"}
	completedKeys = []string{"completed", "done", "isCompleted"}
)

// legacyWorkout mirrors every shape a stored workout has been written in.
type legacyWorkout struct {
	ID        any              `json:"id"`
	Type      string           `json:"type"`
	Date      any              `json:"date"`
	Exercises []legacyExercise `json:"exercises"`
}

type legacyExercise struct {
	ID        any             `json:"id"`
	Name      string          `json:"name"`
	RepScheme string          `json:"repScheme"`
	Sets      json.RawMessage `json:"sets"`
	SetsData  json.RawMessage `json:"setsData"`
	Notes     string          `json:"notes"`
	UserNotes string          `json:"userNotes"`
}

// DecodeWorkout reads a stored workout in any historical shape and returns
// the canonical record. Only structurally invalid JSON is an error; field
// level problems are coerced to defaults.
func DecodeWorkout(data []byte) (WorkoutRecord, error) {
	var lw legacyWorkout
	if err := json.Unmarshal(data, &lw); err != nil {
		return WorkoutRecord{}, fmt.Errorf("decoding workout: %w", err)
	}
	w := WorkoutRecord{
		ID:   CoerceString(lw.ID),
		Type: lw.Type,
		Date: CoerceTime(lw.Date),
	}
	for _, le := range lw.Exercises {
		w.Exercises = append(w.Exercises, le.canonical())
	}
	return w, nil
}

// DecodeExercises converts raw exercise entries in any historical shape.
func DecodeExercises(data []byte) ([]ExerciseEntry, error) {
	var raw []legacyExercise
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding exercises: %w", err)
	}
	out := make([]ExerciseEntry, 0, len(raw))
	for _, le := range raw {
		out = append(out, le.canonical())
	}
	return out, nil
}

func (le legacyExercise) canonical() ExerciseEntry {
	raw := le.Sets
	if len(raw) == 0 || raw[0] != '[' {
		raw = le.SetsData
	}
	notes := le.Notes
	if notes == "" {
		notes = le.UserNotes
	}
	return ExerciseEntry{
		ID:        CoerceString(le.ID),
		Name:      le.Name,
		RepScheme: RepScheme(le.RepScheme),
		Sets:      decodeSets(raw),
		Notes:     notes,
	}
}

// decodeSets tolerates a missing list, a non-list (e.g. a planned set
// count) and non-object elements.
func decodeSets(raw json.RawMessage) []SetRecord {
	if len(raw) == 0 {
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	sets := make([]SetRecord, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		sets = append(sets, DecodeSet(m))
	}
	return sets
}

// DecodeSet builds a SetRecord from a loosely typed object.
func DecodeSet(m map[string]any) SetRecord {
	return SetRecord{
		Weight:    CoerceFloat(firstKey(m, weightKeys)),
		Reps:      CoerceInt(firstKey(m, repsKeys)),
		Completed: CoerceBool(firstKey(m, completedKeys)),
	}
}

func firstKey(m map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// CoerceFloat returns v as a finite float, or 0.
func CoerceFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		f, _ = x.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceInt returns v truncated to an int, or 0.
func CoerceInt(v any) int {
	f := CoerceFloat(v)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// CoerceBool treats true, non-zero numbers and "true"/"1"/"yes" as true.
func CoerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes":
			return true
		}
	}
	return false
}

// CoerceString renders ids that were stored as numbers (epoch millis).
func CoerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return ""
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// CoerceTime parses RFC3339-ish strings and epoch milliseconds. Anything
// else yields the zero time.
func CoerceTime(v any) time.Time {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	case float64:
		if x > 0 && !math.IsInf(x, 0) {
			return time.UnixMilli(int64(x)).UTC()
		}
	}
	return time.Time{}
}
