package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/rptlog/internal/ingest"
	"github.com/claude/rptlog/internal/ingest/backup"
	"github.com/claude/rptlog/internal/ingest/csvlog"
)

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.db.Workouts(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "workouts")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="rptlog-%s.csv"`, s.now().Format("2006-01-02")))
	if err := csvlog.Export(w, workouts); err != nil {
		s.log.Error("csv export failed", "error", err)
	}
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	s.runImport(w, r, "csv", s.csv.Ingest)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	s.runImport(w, r, "backup", s.backup.Ingest)
}

func (s *Server) runImport(w http.ResponseWriter, r *http.Request, source string, ingestFn func(context.Context, io.Reader) (*ingest.Result, error)) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	result, err := ingestFn(r.Context(), r.Body)
	if err != nil {
		s.log.Error("import failed", "source", source, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Info("import handled", "source", source, "duration", time.Since(start).String())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	b, err := backup.Snapshot(r.Context(), s.db, s.opts.Defaults)
	if err != nil {
		s.writeStoreError(w, err, "backup")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="rptlog-backup-%s.json"`, s.now().Format("2006-01-02")))
	if err := backup.Write(w, b); err != nil {
		s.log.Error("backup export failed", "error", err)
	}
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logs, err := s.db.ImportLogs(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, err, "import logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
