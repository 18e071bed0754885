package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/claude/rptlog/internal/analytics"
	"github.com/claude/rptlog/internal/calc"
	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/records"
	"github.com/claude/rptlog/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultWorkoutLimit = 20

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// filterWorkouts keeps workouts matching typ with a date on or after since.
// A zero since keeps all dates. workouts stay in their given order.
func filterWorkouts(workouts []models.WorkoutRecord, typ string, since time.Time) []models.WorkoutRecord {
	out := make([]models.WorkoutRecord, 0, len(workouts))
	for _, w := range workouts {
		if typ != "" && w.Type != typ {
			continue
		}
		if !since.IsZero() && w.Date.Before(since) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List logged workouts, newest first. Each workout has its programme type, date, and exercises with sets (weight, reps, completed)."),
	mcp.WithString("type", mcp.Description("Filter by programme type (e.g. 'A', 'B')")),
	mcp.WithString("since", mcp.Description("Only workouts on or after this date (ISO 8601 or YYYY-MM-DD)")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Personal records keyed by exercise. Each record is the heaviest top set with its reps and date."),
	mcp.WithString("exercise", mcp.Description("Look up a single exercise by id or name")),
)

var toolGetStreaks = mcp.NewTool("get_streaks",
	mcp.WithDescription("Current consecutive daily, weekly and monthly training streaks."),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Per-exercise best-weight progress: all-time and recent deltas, plus the exercises with most progress and those needing attention."),
)

var toolPredictNextWorkout = mcp.NewTool("predict_next_workout",
	mcp.WithDescription("Predict which programme type to run next and return its planned exercises with last-session weights."),
)

var toolCalculateRPT = mcp.NewTool("calculate_rpt",
	mcp.WithDescription("Reverse pyramid back-off weights for sets 1-3 from a top-set weight, using the stored progression percentages."),
	mcp.WithNumber("top", mcp.Required(), mcp.Description("Top set weight")),
)

var toolCalculatePlates = mcp.NewTool("calculate_plates",
	mcp.WithDescription("Plates to load on each side of the bar for a target weight."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Target total weight including the bar")),
	mcp.WithString("unit", mcp.Description("Weight unit. Defaults to the configured unit."), mcp.Enum("lbs", "kg")),
)

var toolCalculateWarmup = mcp.NewTool("calculate_warmup",
	mcp.WithDescription("Warm-up ramp (percent, weight, reps) leading to a top set."),
	mcp.WithNumber("top", mcp.Required(), mcp.Description("Top set weight")),
)

var toolGetBodyWeight = mcp.NewTool("get_body_weight",
	mcp.WithDescription("Body weight log, newest first."),
	mcp.WithString("since", mcp.Description("Only entries on or after this date (ISO 8601 or YYYY-MM-DD)")),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var since time.Time
	if s := req.GetString("since", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		since = t
	}
	limit := req.GetInt("limit", defaultWorkoutLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	workouts, err := h.db.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	workouts = filterWorkouts(workouts, req.GetString("type", ""), since)
	if len(workouts) > limit {
		workouts = workouts[:limit]
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recs, err := h.db.PersonalRecords(ctx)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	var payload any = recs
	if ex := strings.TrimSpace(req.GetString("exercise", "")); ex != "" {
		rec, ok := records.Lookup(recs, models.Slug(ex), ex)
		if !ok {
			return mcp.NewToolResultText("no personal record for " + ex), nil
		}
		payload = rec
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStreaks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.db.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_streaks", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(analytics.ComputeStreaks(workouts, h.now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.db.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(analytics.Report(workouts))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type nextWorkout struct {
	Type      string            `json:"type"`
	Programme *models.Programme `json:"programme,omitempty"`
	Last      *lastSession      `json:"lastSession,omitempty"`
}

type lastSession struct {
	Date      time.Time          `json:"date"`
	TopSets   map[string]float64 `json:"topSets"`
	WorkoutID string             `json:"workoutId"`
}

func (h *handlers) predictNextWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.db.Workouts(ctx)
	if err != nil {
		h.log.Error("mcp predict_next_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	draft, err := h.db.LatestDraft(ctx)
	if err != nil {
		h.log.Error("mcp predict_next_workout: draft", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	next := nextWorkout{Type: analytics.NextWorkoutType(draft, workouts, h.opts.Rotation, h.now())}

	prog, err := h.db.Programme(ctx, next.Type)
	switch {
	case err == nil:
		next.Programme = &prog
	case !errors.Is(err, storage.ErrNotFound):
		h.log.Error("mcp predict_next_workout: programme", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if last, ok := lastOfType(workouts, next.Type); ok {
		ls := &lastSession{Date: last.Date, WorkoutID: last.ID, TopSets: map[string]float64{}}
		for _, ex := range last.Exercises {
			if w, ok := ex.BestWeight(); ok {
				ls.TopSets[models.ExerciseKey(ex.ID, ex.Name)] = w
			}
		}
		next.Last = ls
	}

	result, err := mcp.NewToolResultJSON(next)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// lastOfType expects workouts most recent first.
func lastOfType(workouts []models.WorkoutRecord, typ string) (models.WorkoutRecord, bool) {
	for _, w := range workouts {
		if w.Type == typ {
			return w, true
		}
	}
	return models.WorkoutRecord{}, false
}

type rptSet struct {
	Set    int     `json:"set"`
	Weight float64 `json:"weight"`
}

func (h *handlers) calculateRPT(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	top, err := req.RequireFloat("top")
	if err != nil {
		return mcp.NewToolResultError("top parameter is required"), nil
	}
	ps, err := h.db.ProgressionSettings(ctx, h.opts.Defaults)
	if err != nil {
		h.log.Error("mcp calculate_rpt", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	sets := make([]rptSet, 0, 3)
	for n := 1; n <= 3; n++ {
		sets = append(sets, rptSet{Set: n, Weight: calc.CalculateRPTWeights(top, n, &ps)})
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type plateLoad struct {
	Unit    models.Unit `json:"unit"`
	Bar     float64     `json:"bar"`
	PerSide []float64   `json:"perSide"`
}

func (h *handlers) calculatePlates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil {
		return mcp.NewToolResultError("weight parameter is required"), nil
	}
	unit := h.opts.Unit
	if u := req.GetString("unit", ""); u != "" {
		unit, err = models.ParseUnit(u)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := mcp.NewToolResultJSON(plateLoad{
		Unit:    unit,
		Bar:     calc.BarWeight(unit),
		PerSide: calc.CalculatePlates(weight, unit),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) calculateWarmup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	top, err := req.RequireFloat("top")
	if err != nil {
		return mcp.NewToolResultError("top parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(calc.CalculateWarmupWeights(top))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBodyWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var since time.Time
	if s := req.GetString("since", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		since = t
	}

	entries, err := h.db.BodyWeights(ctx)
	if err != nil {
		h.log.Error("mcp get_body_weight", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if !since.IsZero() {
		kept := entries[:0]
		for _, e := range entries {
			if !e.Date.Before(since) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
