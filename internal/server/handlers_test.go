package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/claude/rptlog/internal/ingest/backup"
	"github.com/claude/rptlog/internal/ingest/csvlog"
	"github.com/claude/rptlog/internal/models"
	"github.com/claude/rptlog/internal/records"
	"github.com/claude/rptlog/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rptlog.db")
	db, err := storage.Open(ctx, storage.Options{Driver: storage.DriverSQLite, DSN: path, MigrateURL: "sqlite://" + path})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if _, err := db.SeedDefaults(ctx); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(db, csvlog.NewProvider(db, log), backup.NewProvider(db, log), Options{
		Unit:     models.UnitLbs,
		Rotation: []string{"A", "B"},
		Location: time.UTC,
		Defaults: models.ProgressionSettings{RPTSet2Percentage: 90, RPTSet3Percentage: 80, GlobalIncrementLbs: 5, GlobalIncrementKg: 2.5},
	}, log)
	return s, db
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v (body %q)", err, rec.Body.String())
	}
	return v
}

// TestHandleMeDefault verifies /api/v1/me returns the local identity
// when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/api/v1/me", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	info := decode[UserInfo](t, rec)
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestWorkoutRoutes covers create, get, patch and the confirmed delete.
func TestWorkoutRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/workouts", models.WorkoutRecord{Type: "A"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[models.WorkoutRecord](t, rec)
	if created.ID == "" || created.Date.IsZero() {
		t.Fatalf("created = %+v", created)
	}

	if rec := do(t, s, http.MethodPost, "/api/v1/workouts", models.WorkoutRecord{}); rec.Code != http.StatusBadRequest {
		t.Errorf("missing type status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPatch, "/api/v1/workouts/"+created.ID, map[string]string{"type": "B"})
	if rec.Code != http.StatusOK || decode[models.WorkoutRecord](t, rec).Type != "B" {
		t.Errorf("patch status = %d", rec.Code)
	}

	if rec := do(t, s, http.MethodDelete, "/api/v1/workouts/"+created.ID, nil); rec.Code != http.StatusConflict {
		t.Errorf("unconfirmed delete status = %d, want 409", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/workouts/"+created.ID+"?confirm=true", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/workouts/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d, want 404", rec.Code)
	}
}

// TestSessionFlow builds rows from the seeded programme, saves them and
// checks the personal record events and the next-workout prediction.
func TestSessionFlow(t *testing.T) {
	s, db := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/v1/session/A", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("session status = %d: %s", rec.Code, rec.Body.String())
	}
	sess := decode[sessionResponse](t, rec)
	prog, _ := db.Programme(context.Background(), "A")
	if len(sess.Rows) != len(prog.Exercises) {
		t.Fatalf("got %d rows, want %d", len(sess.Rows), len(prog.Exercises))
	}
	for _, row := range sess.Rows {
		if len(row.SetsData) != row.SetsCount {
			t.Errorf("%s: %d sets for count %d", row.ID, len(row.SetsData), row.SetsCount)
		}
	}

	sess.Rows[0].SetsData[0] = models.SetRecord{Weight: 185, Reps: 6, Completed: true}
	rec = do(t, s, http.MethodPost, "/api/v1/session/A", saveSessionRequest{Rows: sess.Rows})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}
	saved := decode[saveSessionResponse](t, rec)
	if len(saved.Records) != 1 || saved.Records[0].NewWeight != 185 {
		t.Errorf("records = %+v", saved.Records)
	}

	rec = do(t, s, http.MethodGet, "/api/v1/workouts/next", nil)
	next := decode[map[string]any](t, rec)
	if next["type"] != "B" {
		t.Errorf("next type = %v, want B", next["type"])
	}

	rec = do(t, s, http.MethodGet, "/api/v1/session/A?workout="+saved.Workout.ID, nil)
	edit := decode[sessionResponse](t, rec)
	if edit.WorkoutID != saved.Workout.ID || edit.Rows[0].SetsData[0].Weight != 185 {
		t.Errorf("edit session = %+v", edit)
	}

	if rec := do(t, s, http.MethodGet, "/api/v1/session/Z", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown programme status = %d, want 404", rec.Code)
	}
}

// TestDraftResume verifies a saved draft feeds the session rows.
func TestDraftResume(t *testing.T) {
	s, _ := newTestServer(t)
	draft := models.Draft{Exercises: []models.ExerciseEntry{
		{ID: "incline-bench-press", Name: "Incline Bench Press", Sets: []models.SetRecord{{Weight: 175, Reps: 7}}},
	}}
	if rec := do(t, s, http.MethodPut, "/api/v1/drafts/A", draft); rec.Code != http.StatusOK {
		t.Fatalf("save draft status = %d", rec.Code)
	}
	sess := decode[sessionResponse](t, do(t, s, http.MethodGet, "/api/v1/session/A", nil))
	if !sess.FromDraft || sess.Rows[0].SetsData[0].Weight != 175 {
		t.Errorf("session = %+v", sess)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/drafts/A", nil); rec.Code != http.StatusNoContent {
		t.Errorf("clear draft status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/drafts/A", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get cleared draft status = %d, want 404", rec.Code)
	}
}

// TestCompleteSetRoute verifies equal weight is not a new record.
func TestCompleteSetRoute(t *testing.T) {
	s, _ := newTestServer(t)
	body := completeSetRequest{ExerciseID: "squat", ExerciseName: "Squat", Weight: 225, Reps: 6}
	first := decode[records.Event](t, do(t, s, http.MethodPost, "/api/v1/records", body))
	second := decode[records.Event](t, do(t, s, http.MethodPost, "/api/v1/records", body))
	if !first.New || second.New {
		t.Errorf("first new = %v, second new = %v", first.New, second.New)
	}
	recs := decode[map[string]models.PersonalRecord](t, do(t, s, http.MethodGet, "/api/v1/records", nil))
	if recs["squat"].Weight != 225 {
		t.Errorf("records = %+v", recs)
	}
}

// TestCalcRoutes verifies the calculator endpoints use stored settings.
func TestCalcRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	sets := decode[[]rptSet](t, do(t, s, http.MethodGet, "/api/v1/calc/rpt?top=200", nil))
	if len(sets) != 3 || sets[1].Weight != 180 || sets[2].Weight != 160 {
		t.Errorf("rpt sets = %+v", sets)
	}

	if rec := do(t, s, http.MethodPut, "/api/v1/settings/progression", models.ProgressionSettings{RPTSet2Percentage: 85}); rec.Code != http.StatusOK {
		t.Fatalf("update settings status = %d: %s", rec.Code, rec.Body.String())
	}
	one := decode[rptSet](t, do(t, s, http.MethodGet, "/api/v1/calc/rpt?top=200&set=2", nil))
	if one.Weight != 170 {
		t.Errorf("set 2 at 85%% = %v, want 170", one.Weight)
	}

	plates := decode[map[string]any](t, do(t, s, http.MethodGet, "/api/v1/calc/plates?weight=225", nil))
	if got, _ := json.Marshal(plates["perSide"]); string(got) != "[45,35,10]" {
		t.Errorf("plates = %s", got)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/calc/plates?weight=100&unit=stone", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad unit status = %d, want 400", rec.Code)
	}

	warm := decode[[]map[string]any](t, do(t, s, http.MethodGet, "/api/v1/calc/warmup?top=200", nil))
	if len(warm) != 3 {
		t.Errorf("warmup = %+v", warm)
	}

	next := decode[map[string]any](t, do(t, s, http.MethodGet, "/api/v1/calc/next?top=200&reps=8&goal=8", nil))
	if next["levelUp"] != true || next["suggested"] != 205.0 {
		t.Errorf("next = %+v", next)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/calc/warmup", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("missing top status = %d, want 400", rec.Code)
	}
}

// TestCSVRoutes verifies export then import doubles the logged sets.
func TestCSVRoutes(t *testing.T) {
	s, db := newTestServer(t)
	ctx := context.Background()
	if _, err := db.SaveWorkout(ctx, models.WorkoutRecord{Type: "A", Exercises: []models.ExerciseEntry{
		{Name: "Bench", Sets: []models.SetRecord{{Weight: 185, Reps: 6, Completed: true}, {Weight: 165, Reps: 8, Completed: true}}},
	}}); err != nil {
		t.Fatal(err)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/export.csv", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("export status = %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	exported := rec.Body.String()

	rec = do(t, s, http.MethodPost, "/api/v1/import/csv", exported+"garbage\n")
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body.String())
	}
	res := decode[map[string]any](t, rec)
	if res["sets_inserted"] != 2.0 {
		t.Errorf("import result = %+v", res)
	}

	ws, _ := db.Workouts(ctx)
	if len(ws) != 2 {
		t.Errorf("got %d workouts, want 2", len(ws))
	}
	logs := decode[[]storage.ImportLog](t, do(t, s, http.MethodGet, "/api/v1/import-logs", nil))
	if len(logs) != 1 || logs[0].RowErrors != 1 {
		t.Errorf("import logs = %+v", logs)
	}
}

// TestStatsRoutes verifies streak, progress and summary respond.
func TestStatsRoutes(t *testing.T) {
	s, db := newTestServer(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for i, w := range []float64{100, 110} {
		if _, err := db.SaveWorkout(ctx, models.WorkoutRecord{Type: "A", Date: now.AddDate(0, 0, i-1), Exercises: []models.ExerciseEntry{
			{ID: "bench", Name: "Bench", Sets: []models.SetRecord{{Weight: w, Reps: 5, Completed: true}}},
		}}); err != nil {
			t.Fatal(err)
		}
	}

	streak := decode[map[string]any](t, do(t, s, http.MethodGet, "/api/v1/stats/streak?mode=daily", nil))
	if streak["streak"] != 2.0 {
		t.Errorf("streak = %+v", streak)
	}
	if rec := do(t, s, http.MethodGet, "/api/v1/stats/streak?mode=hourly", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad mode status = %d", rec.Code)
	}

	rec := do(t, s, http.MethodGet, "/api/v1/stats/progress", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "bench") {
		t.Errorf("progress = %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, s, http.MethodGet, "/api/v1/stats/summary", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"totalWorkouts":2`) {
		t.Errorf("summary = %d %s", rec.Code, rec.Body.String())
	}
}

// TestCatalogueRoutes covers exercises, programmes, body weight and videos.
func TestCatalogueRoutes(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/v1/exercises", models.ExerciseTemplate{Name: "Cable Row", Sets: 3})
	if rec.Code != http.StatusOK || decode[models.ExerciseTemplate](t, rec).ID != "cable-row" {
		t.Errorf("save exercise status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/exercises/cable-row?confirm=true", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete exercise status = %d", rec.Code)
	}

	progs := decode[[]models.Programme](t, do(t, s, http.MethodGet, "/api/v1/programmes", nil))
	if len(progs) != 2 {
		t.Errorf("programmes = %d, want 2", len(progs))
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/programmes/B", nil); rec.Code != http.StatusConflict {
		t.Errorf("unconfirmed programme delete = %d, want 409", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/api/v1/bodyweight", models.BodyWeightEntry{Weight: 180})
	if rec.Code != http.StatusCreated {
		t.Errorf("add body weight status = %d", rec.Code)
	}
	if rec := do(t, s, http.MethodPost, "/api/v1/bodyweight", models.BodyWeightEntry{Weight: -1}); rec.Code != http.StatusBadRequest {
		t.Errorf("negative body weight status = %d, want 400", rec.Code)
	}

	rec = do(t, s, http.MethodPut, "/api/v1/videos", videoRequest{ExerciseID: "squat", URL: "https://example.com/v"})
	links := decode[map[string]string](t, rec)
	if links["squat"] != "https://example.com/v" {
		t.Errorf("links = %v", links)
	}
	if rec := do(t, s, http.MethodDelete, "/api/v1/videos/unknown", nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete unknown video = %d, want 404", rec.Code)
	}
}
