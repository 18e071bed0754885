package mcp

import (
	"log/slog"
	"time"

	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Options carries the training preferences tools compute with.
type Options struct {
	Unit     models.Unit
	Rotation []string
	Location *time.Location
	Defaults models.ProgressionSettings
}

// New creates an MCP server with all tools and resources registered.
func New(db *storage.Store, opts Options, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("rptlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("rptlog training log. Query logged workouts, personal records, streaks and progress, and run the reverse pyramid training calculators. Weights are in the configured unit."),
	)

	h := newHandlers(db, opts, log)

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetStreaks, Handler: h.getStreaks},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolPredictNextWorkout, Handler: h.predictNextWorkout},
		server.ServerTool{Tool: toolCalculateRPT, Handler: h.calculateRPT},
		server.ServerTool{Tool: toolCalculatePlates, Handler: h.calculatePlates},
		server.ServerTool{Tool: toolCalculateWarmup, Handler: h.calculateWarmup},
		server.ServerTool{Tool: toolGetBodyWeight, Handler: h.getBodyWeight},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resProgrammes, Handler: h.programmes},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	db   *storage.Store
	opts Options
	log  *slog.Logger
	now  func() time.Time
}

func newHandlers(db *storage.Store, opts Options, log *slog.Logger) *handlers {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Unit == "" {
		opts.Unit = models.UnitLbs
	}
	h := &handlers{db: db, opts: opts, log: log}
	h.now = func() time.Time { return time.Now().In(h.opts.Location) }
	return h
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"rptlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts logged in the last 14 days, newest first"),
	mcp.WithMIMEType("application/json"),
)

var resProgrammes = mcp.NewResource(
	"rptlog://programmes",
	"Programmes",
	mcp.WithResourceDescription("Workout programmes with their planned exercises, plus the rotation order"),
	mcp.WithMIMEType("application/json"),
)
