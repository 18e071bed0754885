package server

import (
	"errors"
	"net/http"

	"github.com/claude/rptlog/internal/analytics"
	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/records"
	"github.com/claude/rptlog/internal/session"
	"github.com/claude/rptlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.Workouts(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "workouts")
		return
	}
	if typ := r.URL.Query().Get("type"); typ != "" {
		filtered := workouts[:0]
		for _, wk := range workouts {
			if wk.Type == typ {
				filtered = append(filtered, wk)
			}
		}
		workouts = filtered
	}
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit > 0 && len(workouts) > limit {
		workouts = workouts[:limit]
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var in models.WorkoutRecord
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	in.ID = ""
	saved, err := s.db.SaveWorkout(r.Context(), in)
	if err != nil {
		s.writeStoreError(w, err, "workout")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wk, err := s.db.Workout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "workout")
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	var patch models.WorkoutPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	wk, err := s.db.UpdateWorkout(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeStoreError(w, err, "workout")
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r) {
		return
	}
	if err := s.db.DeleteWorkout(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "workout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNextWorkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	workouts, err := s.db.Workouts(ctx)
	if err != nil {
		s.writeStoreError(w, err, "workouts")
		return
	}
	draft, err := s.db.LatestDraft(ctx)
	if err != nil {
		s.writeStoreError(w, err, "draft")
		return
	}
	typ := analytics.NextWorkoutType(draft, workouts, s.opts.Rotation, s.now())

	resp := map[string]any{"type": typ}
	prog, err := s.db.Programme(ctx, typ)
	switch {
	case err == nil:
		resp["programme"] = prog
	case !errors.Is(err, storage.ErrNotFound):
		s.writeStoreError(w, err, "programme")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.db.Draft(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		s.writeStoreError(w, err, "draft")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	var d models.Draft
	if !decodeJSON(w, r, &d) {
		return
	}
	d.Type = chi.URLParam(r, "type")
	saved, err := s.db.SaveDraft(r.Context(), d)
	if err != nil {
		s.writeStoreError(w, err, "draft")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.db.ClearDraft(r.Context(), chi.URLParam(r, "type")); err != nil {
		s.writeStoreError(w, err, "draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionResponse is the editable state for one workout session.
type sessionResponse struct {
	Type      string        `json:"type"`
	Name      string        `json:"name"`
	Focus     string        `json:"focus"`
	WorkoutID string        `json:"workoutId,omitempty"`
	FromDraft bool          `json:"fromDraft"`
	Rows      []session.Row `json:"rows"`
}

// handleGetSession builds the row list for a programme type. With
// ?workout=ID the saved workout is being edited; otherwise a draft for the
// type, if any, is resumed.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typ := chi.URLParam(r, "type")
	resp := sessionResponse{Type: typ}

	var prog *models.Programme
	p, err := s.db.Programme(ctx, typ)
	switch {
	case err == nil:
		prog = &p
		resp.Name, resp.Focus = p.Name, p.Focus
	case !errors.Is(err, storage.ErrNotFound):
		s.writeStoreError(w, err, "programme")
		return
	}

	var saved *models.WorkoutRecord
	if id := r.URL.Query().Get("workout"); id != "" {
		wk, err := s.db.Workout(ctx, id)
		if err != nil {
			s.writeStoreError(w, err, "workout")
			return
		}
		saved = &wk
		resp.WorkoutID = wk.ID
	} else {
		d, err := s.db.Draft(ctx, typ)
		switch {
		case err == nil:
			saved = &models.WorkoutRecord{Type: typ, Exercises: d.Exercises}
			resp.FromDraft = true
		case !errors.Is(err, storage.ErrNotFound):
			s.writeStoreError(w, err, "draft")
			return
		}
	}

	if prog == nil && saved == nil {
		writeError(w, http.StatusNotFound, "programme not found")
		return
	}

	catalogue, err := s.db.Exercises(ctx)
	if err != nil {
		s.writeStoreError(w, err, "exercises")
		return
	}
	resp.Rows = session.BuildRows(prog, saved, catalogue)
	writeJSON(w, http.StatusOK, resp)
}

type saveSessionRequest struct {
	Rows []session.Row `json:"rows"`
}

type saveSessionResponse struct {
	Workout models.WorkoutRecord `json:"workout"`
	Records []records.Event      `json:"records"`
}

// handleSaveSession stores the rows as a workout (or updates ?workout=ID),
// clears the type's draft and reports new personal records.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typ := chi.URLParam(r, "type")
	var req saveSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	exercises := session.Exercises(req.Rows)

	var (
		wk  models.WorkoutRecord
		err error
	)
	if id := r.URL.Query().Get("workout"); id != "" {
		wk, err = s.db.UpdateWorkout(ctx, id, models.WorkoutPatch{Exercises: exercises})
	} else {
		wk, err = s.db.SaveWorkout(ctx, models.WorkoutRecord{Type: typ, Exercises: exercises})
	}
	if err != nil {
		s.writeStoreError(w, err, "workout")
		return
	}

	if err := s.db.ClearDraft(ctx, typ); err != nil {
		s.log.Warn("failed to clear draft", "type", typ, "error", err)
	}

	events, err := s.db.Tracker().CompleteWorkout(ctx, wk)
	if err != nil {
		s.writeStoreError(w, err, "personal records")
		return
	}
	if events == nil {
		events = []records.Event{}
	}
	writeJSON(w, http.StatusOK, saveSessionResponse{Workout: wk, Records: events})
}
