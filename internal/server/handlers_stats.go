package server

import (
	"net/http"

	"github.com/claude/rptlog/internal/analytics"
	"github.com/claude/rptlog/internal/calc"
	"github.com/claude/rptlog/internal/models"
)

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.Workouts(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "workouts")
		return
	}
	now := s.now()
	if mode := r.URL.Query().Get("mode"); mode != "" {
		m := analytics.StreakMode(mode)
		switch m {
		case analytics.StreakDaily, analytics.StreakWeekly, analytics.StreakMonthly:
		default:
			writeError(w, http.StatusBadRequest, "mode must be daily, weekly or monthly")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"mode": m, "streak": analytics.Streak(workouts, m, now)})
		return
	}
	writeJSON(w, http.StatusOK, analytics.ComputeStreaks(workouts, now))
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.Workouts(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "workouts")
		return
	}
	writeJSON(w, http.StatusOK, analytics.Report(workouts))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workouts, err := s.db.Workouts(ctx)
	if err != nil {
		s.writeStoreError(w, err, "workouts")
		return
	}
	bw, err := s.db.BodyWeights(ctx)
	if err != nil {
		s.writeStoreError(w, err, "body weight")
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(workouts, bw, s.now()))
}

type rptSet struct {
	Set    int     `json:"set"`
	Weight float64 `json:"weight"`
}

// handleCalcRPT returns the weight for ?set=N, or sets 1-3 when set is omitted.
func (s *Server) handleCalcRPT(w http.ResponseWriter, r *http.Request) {
	top, err := floatParam(r, "top")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	set, err := intParam(r, "set", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ps, err := s.db.ProgressionSettings(r.Context(), s.opts.Defaults)
	if err != nil {
		s.writeStoreError(w, err, "progression settings")
		return
	}
	if set > 0 {
		writeJSON(w, http.StatusOK, rptSet{Set: set, Weight: calc.CalculateRPTWeights(top, set, &ps)})
		return
	}
	sets := make([]rptSet, 0, 3)
	for n := 1; n <= 3; n++ {
		sets = append(sets, rptSet{Set: n, Weight: calc.CalculateRPTWeights(top, n, &ps)})
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleCalcWarmup(w http.ResponseWriter, r *http.Request) {
	top, err := floatParam(r, "top")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, calc.CalculateWarmupWeights(top))
}

func (s *Server) unitParam(r *http.Request) (models.Unit, error) {
	v := r.URL.Query().Get("unit")
	if v == "" {
		return s.opts.Unit, nil
	}
	return models.ParseUnit(v)
}

func (s *Server) handleCalcPlates(w http.ResponseWriter, r *http.Request) {
	weight, err := floatParam(r, "weight")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.unitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"unit":    unit,
		"bar":     calc.BarWeight(unit),
		"perSide": calc.CalculatePlates(weight, unit),
	})
}

// handleCalcNext suggests the next top-set weight. With ?reps and ?goal it
// also reports whether the goal was met.
func (s *Server) handleCalcNext(w http.ResponseWriter, r *http.Request) {
	top, err := floatParam(r, "top")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, err := s.unitParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reps, err := intParam(r, "reps", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	goal, err := intParam(r, "goal", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ps, err := s.db.ProgressionSettings(r.Context(), s.opts.Defaults)
	if err != nil {
		s.writeStoreError(w, err, "progression settings")
		return
	}
	levelUp := goal > 0 && calc.ShouldLevelUp(reps, goal)
	next := top
	if levelUp || goal == 0 {
		next = calc.SuggestNextWeight(top, unit, r.URL.Query().Get("exercise"), ps)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"levelUp":   levelUp,
		"suggested": next,
	})
}
