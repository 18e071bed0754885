package storage

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/rptlog/internal/records"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationFS embed.FS

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Collection names in the documents table.
const (
	colWorkouts        = "workouts"
	colDrafts          = "drafts"
	colPersonalRecords = "personal_records"
	colBodyWeight      = "body_weight"
	colExercises       = "exercises"
	colProgrammes      = "programmes"
	colVideos          = "videos"
	colSettings        = "settings"
	colImportLogs      = "import_logs"
)

// document is one stored row.
type document struct {
	ID     string
	SortAt time.Time
	Body   []byte
}

// backend is the per-driver document table access.
type backend interface {
	put(ctx context.Context, collection string, doc document) error
	putAll(ctx context.Context, collection string, docs []document) error
	get(ctx context.Context, collection, id string) ([]byte, error)
	// list returns documents ordered by sort_at descending, then id.
	list(ctx context.Context, collection string) ([]document, error)
	delete(ctx context.Context, collection, id string) (bool, error)
	count(ctx context.Context, collection string) (int, error)
	close() error
}

// Options selects and locates the database.
type Options struct {
	Driver     string
	DSN        string
	MigrateURL string
}

// Store provides repository methods over the document table.
type Store struct {
	b       backend
	driver  string
	now     func() time.Time
	tracker *records.Tracker
}

// Open applies pending migrations and connects to the configured backend.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Driver == DriverSQLite {
		if err := ensureSQLiteDir(opts.DSN); err != nil {
			return nil, err
		}
	}
	if opts.MigrateURL != "" {
		if err := RunMigrations(opts.Driver, opts.MigrateURL); err != nil {
			return nil, err
		}
	}

	var (
		b   backend
		err error
	)
	switch opts.Driver {
	case DriverSQLite:
		b, err = openSQLite(ctx, opts.DSN)
	case DriverPostgres:
		b, err = openPostgres(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return newStore(b, opts.Driver), nil
}

func newStore(b backend, driver string) *Store {
	s := &Store{b: b, driver: driver, now: time.Now}
	s.tracker = records.NewTracker(s)
	return s
}

// Driver returns the backend name.
func (s *Store) Driver() string { return s.driver }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.b.close()
}

// RunMigrations applies all pending embedded migrations for driver.
func RunMigrations(driver, migrateURL string) error {
	src, err := iofs.New(migrationFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", driver, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

func (s *Store) putJSON(ctx context.Context, collection, id string, sortAt time.Time, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s/%s: %w", collection, id, err)
	}
	if err := s.b.put(ctx, collection, document{ID: id, SortAt: sortAt, Body: body}); err != nil {
		return fmt.Errorf("saving %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, collection, id string, v any) error {
	body, err := s.b.get(ctx, collection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, collection, id string) error {
	ok, err := s.b.delete(ctx, collection, id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", collection, id, err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
