package csvlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/rptlog/internal/ingest"
	"github.com/claude/rptlog/internal/storage"
)

// Provider imports CSV workout logs into the store.
type Provider struct {
	db  *storage.Store
	log *slog.Logger
}

// NewProvider creates a new CSV ingest provider.
func NewProvider(db *storage.Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses r and appends every workout that parsed. Rejected rows are
// reported in the result; they do not stop the import.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	start := time.Now()
	workouts, rowErrs, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{Errors: rowErrs, WorkoutsReceived: len(workouts)}
	for _, w := range workouts {
		result.SetsReceived += w.SetCount()
	}

	saved, err := p.db.AppendWorkouts(ctx, workouts)
	if err != nil {
		return nil, fmt.Errorf("storing workouts: %w", err)
	}
	result.WorkoutsInserted = len(saved)
	for _, w := range saved {
		result.SetsInserted += w.SetCount()
	}
	result.Message = fmt.Sprintf("imported %d workouts (%d sets), %d rows rejected",
		result.WorkoutsInserted, result.SetsInserted, len(rowErrs))

	logEntry := storage.ImportLog{
		Source:           "csv",
		Status:           result.Status(),
		WorkoutsReceived: result.WorkoutsReceived,
		WorkoutsInserted: result.WorkoutsInserted,
		SetsInserted:     result.SetsInserted,
		RowErrors:        len(rowErrs),
		DurationMs:       time.Since(start).Milliseconds(),
	}
	if err := result.Err(); err != nil {
		logEntry.ErrorMessage = err.Error()
	}
	if _, err := p.db.InsertImportLog(ctx, logEntry); err != nil {
		p.log.Warn("failed to record import log", "error", err)
	}

	p.log.Info("csv import complete",
		"workouts", result.WorkoutsInserted,
		"sets", result.SetsInserted,
		"rejected_rows", len(rowErrs),
	)
	return result, nil
}
