// Package csvlog reads and writes the flat per-set CSV workout log.
package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/claude/rptlog/internal/ingest"
	"github.com/claude/rptlog/internal/models"
)

// Header is the column layout written by Export and expected by Parse.
var Header = []string{"Date", "Workout", "Exercise", "Set", "Weight", "Reps", "Notes"}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006",
}

type pendingSet struct {
	number int
	set    models.SetRecord
}

type pendingExercise struct {
	entry models.ExerciseEntry
	sets  []pendingSet
}

type pendingWorkout struct {
	record    models.WorkoutRecord
	exercises []*pendingExercise
	byName    map[string]*pendingExercise
}

// Parse reads a CSV log and groups its rows into workouts by (Date, Workout)
// in first-seen order. Rows that cannot be read are returned as row errors
// and skipped; the returned error is only set when the input itself is
// unreadable.
func Parse(r io.Reader) ([]models.WorkoutRecord, []ingest.RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	var (
		order   []*pendingWorkout
		byKey   = map[string]*pendingWorkout{}
		rowErrs []ingest.RowError
		first   = true
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			rowErrs = append(rowErrs, ingest.RowError{Line: pe.Line, Reason: pe.Err.Error()})
			continue
		}
		if err != nil {
			return nil, rowErrs, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if first {
			first = false
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			if strings.EqualFold(strings.TrimSpace(record[0]), "date") {
				continue
			}
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		parsed, reason := parseRow(record)
		if reason != "" {
			rowErrs = append(rowErrs, ingest.RowError{Line: line, Reason: reason})
			continue
		}

		key := parsed.date.UTC().Format(time.RFC3339Nano) + "\x00" + parsed.workout
		pw, ok := byKey[key]
		if !ok {
			pw = &pendingWorkout{
				record: models.WorkoutRecord{Type: parsed.workout, Date: parsed.date},
				byName: map[string]*pendingExercise{},
			}
			byKey[key] = pw
			order = append(order, pw)
		}

		nameKey := strings.ToLower(parsed.exercise)
		ex, ok := pw.byName[nameKey]
		if !ok {
			ex = &pendingExercise{entry: models.ExerciseEntry{
				ID:   models.Slug(parsed.exercise),
				Name: parsed.exercise,
			}}
			pw.byName[nameKey] = ex
			pw.exercises = append(pw.exercises, ex)
		}
		if ex.entry.Notes == "" {
			ex.entry.Notes = parsed.notes
		}
		ex.sets = append(ex.sets, pendingSet{
			number: parsed.set,
			set:    models.SetRecord{Weight: parsed.weight, Reps: parsed.reps, Completed: true},
		})
	}

	workouts := make([]models.WorkoutRecord, 0, len(order))
	for _, pw := range order {
		w := pw.record
		for _, ex := range pw.exercises {
			sort.SliceStable(ex.sets, func(i, j int) bool { return ex.sets[i].number < ex.sets[j].number })
			for _, ps := range ex.sets {
				ex.entry.Sets = append(ex.entry.Sets, ps.set)
			}
			w.Exercises = append(w.Exercises, ex.entry)
		}
		workouts = append(workouts, w)
	}
	return workouts, rowErrs, nil
}

type row struct {
	date     time.Time
	workout  string
	exercise string
	set      int
	weight   float64
	reps     int
	notes    string
}

// parseRow returns a non-empty reason when the row is rejected.
func parseRow(rec []string) (row, string) {
	if len(rec) != len(Header) && len(rec) != len(Header)-1 {
		return row{}, fmt.Sprintf("expected %d columns, got %d", len(Header), len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}

	var r row
	var ok bool
	if r.date, ok = parseDate(rec[0]); !ok {
		return row{}, fmt.Sprintf("invalid date %q", rec[0])
	}
	if r.workout = rec[1]; r.workout == "" {
		return row{}, "missing workout type"
	}
	if r.exercise = rec[2]; r.exercise == "" {
		return row{}, "missing exercise name"
	}
	n, err := strconv.Atoi(rec[3])
	if err != nil || n < 1 {
		return row{}, fmt.Sprintf("invalid set number %q", rec[3])
	}
	r.set = n

	if rec[4] != "" {
		w, err := strconv.ParseFloat(rec[4], 64)
		if err != nil || math.IsNaN(w) || math.IsInf(w, 0) {
			return row{}, fmt.Sprintf("invalid weight %q", rec[4])
		}
		r.weight = w
	}
	if rec[5] != "" {
		reps, err := strconv.Atoi(rec[5])
		if err != nil || reps < 0 {
			return row{}, fmt.Sprintf("invalid reps %q", rec[5])
		}
		r.reps = reps
	}
	if len(rec) == len(Header) {
		r.notes = rec[6]
	}
	return r, ""
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
