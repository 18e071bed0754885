package csvlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/claude/rptlog/internal/models"
)

// Export writes one row per set for every workout, oldest workout first.
// Exercises without sets produce no rows, and an exercise without a name
// is written under its id.
func Export(w io.Writer, workouts []models.WorkoutRecord) error {
	sorted := make([]models.WorkoutRecord, len(workouts))
	copy(sorted, workouts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, wk := range sorted {
		date := wk.Date.Format(time.RFC3339)
		for _, ex := range wk.Exercises {
			name := ex.Name
			if strings.TrimSpace(name) == "" {
				name = ex.ID
			}
			for i, s := range ex.Sets {
				rec := []string{
					date,
					wk.Type,
					name,
					strconv.Itoa(i + 1),
					strconv.FormatFloat(s.Weight, 'f', -1, 64),
					strconv.Itoa(s.Reps),
					ex.Notes,
				}
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("writing workout %s: %w", wk.ID, err)
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
