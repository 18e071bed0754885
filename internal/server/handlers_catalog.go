package server

import (
	"net/http"
	"strings"

	"github.com/claude/rptlog/internal/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.db.PersonalRecords(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "personal records")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

type completeSetRequest struct {
	ExerciseID   string  `json:"exerciseId"`
	ExerciseName string  `json:"exerciseName"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
}

// handleCompleteSet checks one just-completed set against the stored record.
func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	var req completeSetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ExerciseID == "" && strings.TrimSpace(req.ExerciseName) == "" {
		writeError(w, http.StatusBadRequest, "exerciseId or exerciseName is required")
		return
	}
	ev, err := s.db.Tracker().Complete(r.Context(), req.ExerciseID, req.ExerciseName, req.Weight, req.Reps)
	if err != nil {
		s.writeStoreError(w, err, "personal record")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleGetProgression(w http.ResponseWriter, r *http.Request) {
	ps, err := s.db.ProgressionSettings(r.Context(), s.opts.Defaults)
	if err != nil {
		s.writeStoreError(w, err, "progression settings")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleUpdateProgression(w http.ResponseWriter, r *http.Request) {
	var ps models.ProgressionSettings
	if !decodeJSON(w, r, &ps) {
		return
	}
	if err := s.db.UpdateProgressionSettings(r.Context(), ps); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.handleGetProgression(w, r)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list, err := s.db.Exercises(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "exercises")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleSaveExercise(w http.ResponseWriter, r *http.Request) {
	var ex models.ExerciseTemplate
	if !decodeJSON(w, r, &ex) {
		return
	}
	saved, err := s.db.SaveExercise(r.Context(), ex)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r) {
		return
	}
	if err := s.db.DeleteExercise(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "exercise")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProgrammes(w http.ResponseWriter, r *http.Request) {
	list, err := s.db.Programmes(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "programmes")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetProgramme(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.Programme(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		s.writeStoreError(w, err, "programme")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSaveProgramme(w http.ResponseWriter, r *http.Request) {
	var p models.Programme
	if !decodeJSON(w, r, &p) {
		return
	}
	saved, err := s.db.SaveProgramme(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteProgramme(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r) {
		return
	}
	if err := s.db.DeleteProgramme(r.Context(), chi.URLParam(r, "type")); err != nil {
		s.writeStoreError(w, err, "programme")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBodyWeight(w http.ResponseWriter, r *http.Request) {
	entries, err := s.db.BodyWeights(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "body weight")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAddBodyWeight(w http.ResponseWriter, r *http.Request) {
	var e models.BodyWeightEntry
	if !decodeJSON(w, r, &e) {
		return
	}
	saved, err := s.db.AddBodyWeight(r.Context(), e)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteBodyWeight(w http.ResponseWriter, r *http.Request) {
	if !confirmed(w, r) {
		return
	}
	if err := s.db.DeleteBodyWeight(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "body weight entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	links, err := s.db.VideoLinks(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "video links")
		return
	}
	writeJSON(w, http.StatusOK, links)
}

type videoRequest struct {
	ExerciseID string `json:"exerciseId"`
	URL        string `json:"url"`
}

func (s *Server) handleSetVideo(w http.ResponseWriter, r *http.Request) {
	var req videoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.db.SetVideoLink(r.Context(), req.ExerciseID, req.URL); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.handleListVideos(w, r)
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteVideoLink(r.Context(), chi.URLParam(r, "exerciseID")); err != nil {
		s.writeStoreError(w, err, "video link")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
