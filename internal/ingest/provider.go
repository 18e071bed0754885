package ingest

import (
	"fmt"

	"go.uber.org/multierr"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	WorkoutsReceived int `json:"workouts_received"`
	WorkoutsInserted int `json:"workouts_inserted"`
	SetsReceived     int `json:"sets_received"`
	SetsInserted     int `json:"sets_inserted"`

	BodyWeightInserted int `json:"body_weight_inserted,omitempty"`
	RecordsUpdated     int `json:"records_updated,omitempty"`
	ExercisesInserted  int `json:"exercises_inserted,omitempty"`
	ProgrammesInserted int `json:"programmes_inserted,omitempty"`
	VideosInserted     int `json:"videos_inserted,omitempty"`

	Errors  []RowError `json:"errors,omitempty"`
	Message string     `json:"message,omitempty"`
}

// RowError describes one input row that could not be imported.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// Err combines the row errors into one error, or nil when every row parsed.
func (r *Result) Err() error {
	var err error
	for _, re := range r.Errors {
		err = multierr.Append(err, re)
	}
	return err
}

// Status summarizes the result for import logs: "success", "partial"
// when some rows were rejected, or "error" when nothing was imported.
func (r *Result) Status() string {
	switch {
	case len(r.Errors) == 0:
		return "success"
	case r.WorkoutsInserted > 0:
		return "partial"
	default:
		return "error"
	}
}
