package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/rptlog/internal/ingest"
	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/records"
	"github.com/claude/rptlog/internal/storage"
)

// Provider restores data dumps into the store.
type Provider struct {
	db  *storage.Store
	log *slog.Logger
}

// NewProvider creates a new backup ingest provider.
func NewProvider(db *storage.Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest appends workouts and body weight from the dump, inserts catalogue
// entries, programmes and video links that do not exist yet, and keeps a
// personal record only where it beats the stored one.
func (p *Provider) Ingest(ctx context.Context, r io.Reader) (*ingest.Result, error) {
	start := time.Now()
	b, err := Parse(r)
	if err != nil {
		return nil, err
	}
	result := &ingest.Result{WorkoutsReceived: len(b.Workouts)}
	for _, w := range b.Workouts {
		result.SetsReceived += w.SetCount()
	}

	saved, err := p.db.AppendWorkouts(ctx, b.Workouts)
	if err != nil {
		return nil, fmt.Errorf("storing workouts: %w", err)
	}
	result.WorkoutsInserted = len(saved)
	for _, w := range saved {
		result.SetsInserted += w.SetCount()
	}

	if result.BodyWeightInserted, err = p.db.AppendBodyWeights(ctx, b.BodyWeight); err != nil {
		return nil, err
	}
	if result.RecordsUpdated, err = p.mergeRecords(ctx, b.PersonalRecords); err != nil {
		return nil, err
	}
	if err := p.mergeCatalogue(ctx, b, result); err != nil {
		return nil, err
	}
	if b.Settings != nil {
		if err := p.db.UpdateProgressionSettings(ctx, *b.Settings); err != nil {
			p.log.Warn("skipping backup progression settings", "error", err)
		}
	}

	result.Message = fmt.Sprintf("restored %d workouts, %d body weight entries, %d records",
		result.WorkoutsInserted, result.BodyWeightInserted, result.RecordsUpdated)
	if _, err := p.db.InsertImportLog(ctx, storage.ImportLog{
		Source:           "backup",
		Status:           result.Status(),
		WorkoutsReceived: result.WorkoutsReceived,
		WorkoutsInserted: result.WorkoutsInserted,
		SetsInserted:     result.SetsInserted,
		DurationMs:       time.Since(start).Milliseconds(),
	}); err != nil {
		p.log.Warn("failed to record import log", "error", err)
	}
	p.log.Info("backup import complete",
		"workouts", result.WorkoutsInserted,
		"body_weight", result.BodyWeightInserted,
		"records", result.RecordsUpdated,
	)
	return result, nil
}

func (p *Provider) mergeRecords(ctx context.Context, in map[string]models.PersonalRecord) (int, error) {
	if len(in) == 0 {
		return 0, nil
	}
	stored, err := p.db.PersonalRecords(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for key, rec := range in {
		existing, found := records.Lookup(stored, key, rec.ExerciseName)
		if !records.Beats(rec.Weight, existing, found) {
			continue
		}
		if err := p.db.PutPersonalRecord(ctx, key, rec); err != nil {
			return n, err
		}
		stored[key] = rec
		n++
	}
	return n, nil
}

func (p *Provider) mergeCatalogue(ctx context.Context, b *Backup, result *ingest.Result) error {
	exercises, err := p.db.Exercises(ctx)
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(exercises))
	for _, ex := range exercises {
		have[ex.ID] = true
	}
	for _, ex := range b.Exercises {
		id := models.ExerciseKey(ex.ID, ex.Name)
		if have[id] {
			continue
		}
		ex.ID = id
		if _, err := p.db.SaveExercise(ctx, ex); err != nil {
			p.log.Warn("skipping backup exercise", "id", id, "error", err)
			continue
		}
		have[id] = true
		result.ExercisesInserted++
	}

	for _, prog := range b.Programmes {
		_, err := p.db.Programme(ctx, prog.Type)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if _, err := p.db.SaveProgramme(ctx, prog); err != nil {
			p.log.Warn("skipping backup programme", "type", prog.Type, "error", err)
			continue
		}
		result.ProgrammesInserted++
	}

	if len(b.Videos) > 0 {
		links, err := p.db.VideoLinks(ctx)
		if err != nil {
			return err
		}
		for id, link := range b.Videos {
			if _, ok := links[id]; ok {
				continue
			}
			if err := p.db.SetVideoLink(ctx, id, link); err != nil {
				p.log.Warn("skipping backup video link", "exercise", id, "error", err)
				continue
			}
			result.VideosInserted++
		}
	}
	return nil
}

// Snapshot collects every collection from the store into a Backup.
func Snapshot(ctx context.Context, db *storage.Store, defaults models.ProgressionSettings) (*Backup, error) {
	var (
		b   = &Backup{}
		err error
	)
	if b.Workouts, err = db.Workouts(ctx); err != nil {
		return nil, err
	}
	if b.PersonalRecords, err = db.PersonalRecords(ctx); err != nil {
		return nil, err
	}
	if b.BodyWeight, err = db.BodyWeights(ctx); err != nil {
		return nil, err
	}
	if b.Exercises, err = db.Exercises(ctx); err != nil {
		return nil, err
	}
	if b.Programmes, err = db.Programmes(ctx); err != nil {
		return nil, err
	}
	settings, err := db.ProgressionSettings(ctx, defaults)
	if err != nil {
		return nil, err
	}
	b.Settings = &settings
	if b.Videos, err = db.VideoLinks(ctx); err != nil {
		return nil, err
	}
	return b, nil
}
