package session

import (
	"strings"

	"github.com/claude/rptlog/internal/models"
)

// DefaultRestTime is used when neither the template nor the catalogue
// declares a rest time.
const DefaultRestTime = 180

// Row is one editable exercise in a logging session.
type Row struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	RepScheme models.RepScheme   `json:"repScheme"`
	SetsCount int                `json:"setsCount"`
	GoalReps  []int              `json:"goalReps"`
	RestTime  int                `json:"restTime"`
	Notes     string             `json:"notes"`
	UserNotes string             `json:"userNotes"`
	SetsData  []models.SetRecord `json:"setsData"`
}

// BuildRows reconciles a programme template, an optional saved workout and
// the exercise catalogue into rows. The template drives the list and set
// counts; the saved workout supplies performed sets; the catalogue fills
// gaps. The result has one row per template exercise, in template order.
func BuildRows(programme *models.Programme, saved *models.WorkoutRecord, catalogue []models.ExerciseTemplate) []Row {
	templates := templateList(programme, saved)

	savedByID := map[string]*models.ExerciseEntry{}
	savedByName := map[string]*models.ExerciseEntry{}
	if saved != nil {
		for i := range saved.Exercises {
			ex := &saved.Exercises[i]
			if ex.ID != "" {
				if _, ok := savedByID[ex.ID]; !ok {
					savedByID[ex.ID] = ex
				}
			}
			if name := strings.ToLower(strings.TrimSpace(ex.Name)); name != "" {
				if _, ok := savedByName[name]; !ok {
					savedByName[name] = ex
				}
			}
		}
	}
	catalogueByID := make(map[string]*models.ExerciseTemplate, len(catalogue))
	for i := range catalogue {
		catalogueByID[catalogue[i].ID] = &catalogue[i]
	}

	rows := make([]Row, 0, len(templates))
	for _, tpl := range templates {
		s := savedByID[tpl.ID]
		if s == nil {
			s = savedByName[strings.ToLower(strings.TrimSpace(tpl.Name))]
		}
		rows = append(rows, buildRow(tpl, s, catalogueByID[tpl.ID]))
	}
	return rows
}

// templateList falls back to the saved workout's own exercises when the
// programme is gone or empty.
func templateList(programme *models.Programme, saved *models.WorkoutRecord) []models.ExerciseTemplate {
	if programme != nil && len(programme.Exercises) > 0 {
		return programme.Exercises
	}
	if saved == nil {
		return nil
	}
	out := make([]models.ExerciseTemplate, 0, len(saved.Exercises))
	for _, ex := range saved.Exercises {
		out = append(out, models.ExerciseTemplate{
			ID:        ex.ID,
			Name:      ex.Name,
			RepScheme: ex.RepScheme,
		})
	}
	return out
}

func buildRow(tpl models.ExerciseTemplate, saved *models.ExerciseEntry, cat *models.ExerciseTemplate) Row {
	var catalogue models.ExerciseTemplate
	if cat != nil {
		catalogue = *cat
	}

	setsCount := tpl.Sets
	if setsCount <= 0 {
		setsCount = catalogue.Sets
	}
	if setsCount <= 0 && saved != nil {
		setsCount = len(saved.Sets)
	}
	if setsCount <= 0 {
		setsCount = DefaultSets
	}
	setsCount = ClampSetCount(setsCount)

	goalReps := tpl.GoalReps
	if len(goalReps) == 0 {
		goalReps = catalogue.GoalReps
	}

	var savedSets []models.SetRecord
	var savedName, userNotes string
	var savedScheme models.RepScheme
	if saved != nil {
		savedSets = saved.Sets
		savedName = saved.Name
		savedScheme = saved.RepScheme
		userNotes = saved.Notes
	}

	restTime := tpl.RestTime
	if restTime <= 0 {
		restTime = catalogue.RestTime
	}
	if restTime <= 0 {
		restTime = DefaultRestTime
	}

	return Row{
		ID:        tpl.ID,
		Name:      firstNonEmpty(tpl.Name, savedName, catalogue.Name, tpl.ID),
		RepScheme: models.RepScheme(firstNonEmpty(string(tpl.RepScheme), string(savedScheme), string(catalogue.RepScheme), string(models.RepSchemeStraight))),
		SetsCount: setsCount,
		GoalReps:  NormalizeGoalReps(goalReps, setsCount),
		RestTime:  restTime,
		Notes:     firstNonEmpty(tpl.Notes, catalogue.Notes),
		UserNotes: userNotes,
		SetsData:  NormalizeSets(savedSets, setsCount),
	}
}

// Exercises converts rows back into the exercise list stored on a workout.
// Rows are re-normalized so hand-edited input cannot break the set count.
func Exercises(rows []Row) []models.ExerciseEntry {
	out := make([]models.ExerciseEntry, 0, len(rows))
	for _, r := range rows {
		n := r.SetsCount
		if n <= 0 {
			n = len(r.SetsData)
		}
		out = append(out, models.ExerciseEntry{
			ID:        r.ID,
			Name:      r.Name,
			RepScheme: r.RepScheme,
			Sets:      NormalizeSets(r.SetsData, n),
			Notes:     r.UserNotes,
		})
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
