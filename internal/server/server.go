package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/rptlog/internal/ingest/backup"
	"github.com/claude/rptlog/internal/ingest/csvlog"
	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Options carries the training preferences handlers compute with.
type Options struct {
	Unit     models.Unit
	Rotation []string
	Location *time.Location
	Defaults models.ProgressionSettings
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.Store
	csv      *csvlog.Provider
	backup   *backup.Provider
	opts     Options
	log      *slog.Logger
	identity func(http.Handler) http.Handler
	router   chi.Router
	now      func() time.Time
}

// New creates a new Server with all routes configured.
func New(db *storage.Store, csvProvider *csvlog.Provider, backupProvider *backup.Provider, opts Options, log *slog.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Unit == "" {
		opts.Unit = models.UnitLbs
	}
	s := &Server{
		db:       db,
		csv:      csvProvider,
		backup:   backupProvider,
		opts:     opts,
		log:      log,
		identity: DevIdentity,
		router:   chi.NewRouter(),
	}
	s.now = func() time.Time { return time.Now().In(s.opts.Location) }
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	// chi chains middleware when the first route is added, so the identity
	// middleware is looked up per request to honor SetIdentity.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.identity(next).ServeHTTP(w, r)
		})
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Get("/workouts", s.handleListWorkouts)
		r.Post("/workouts", s.handleCreateWorkout)
		r.Get("/workouts/next", s.handleNextWorkout)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Patch("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)

		r.Get("/drafts/{type}", s.handleGetDraft)
		r.Put("/drafts/{type}", s.handleSaveDraft)
		r.Delete("/drafts/{type}", s.handleClearDraft)

		r.Get("/session/{type}", s.handleGetSession)
		r.Post("/session/{type}", s.handleSaveSession)

		r.Get("/records", s.handleListRecords)
		r.Post("/records", s.handleCompleteSet)

		r.Get("/settings/progression", s.handleGetProgression)
		r.Put("/settings/progression", s.handleUpdateProgression)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleSaveExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		r.Get("/programmes", s.handleListProgrammes)
		r.Post("/programmes", s.handleSaveProgramme)
		r.Get("/programmes/{type}", s.handleGetProgramme)
		r.Delete("/programmes/{type}", s.handleDeleteProgramme)

		r.Get("/bodyweight", s.handleListBodyWeight)
		r.Post("/bodyweight", s.handleAddBodyWeight)
		r.Delete("/bodyweight/{id}", s.handleDeleteBodyWeight)

		r.Get("/videos", s.handleListVideos)
		r.Put("/videos", s.handleSetVideo)
		r.Delete("/videos/{exerciseID}", s.handleDeleteVideo)

		r.Get("/stats/streak", s.handleStreak)
		r.Get("/stats/progress", s.handleProgress)
		r.Get("/stats/summary", s.handleSummary)

		r.Get("/calc/rpt", s.handleCalcRPT)
		r.Get("/calc/warmup", s.handleCalcWarmup)
		r.Get("/calc/plates", s.handleCalcPlates)
		r.Get("/calc/next", s.handleCalcNext)

		r.Get("/export.csv", s.handleExportCSV)
		r.Post("/import/csv", s.handleImportCSV)
		r.Get("/export/backup", s.handleExportBackup)
		r.Post("/import/backup", s.handleImportBackup)
		r.Get("/import-logs", s.handleImportLogs)
	})
}

// SetIdentity replaces the identity middleware, e.g. with TailscaleIdentity
// when serving on a tailnet.
func (s *Server) SetIdentity(mw func(http.Handler) http.Handler) {
	s.identity = mw
}

// SetFrontend mounts a built SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
