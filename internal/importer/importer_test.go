package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/repforge/internal/models"
	"github.com/google/uuid"
)

// fakeWriter collects inserted sets in memory.
type fakeWriter struct {
	catalog []models.Exercise
	sets    []models.LoggedSet
}

func (f *fakeWriter) ListExercises(ctx context.Context, equipment, muscle string) ([]models.Exercise, error) {
	return f.catalog, nil
}

func (f *fakeWriter) InsertLoggedSet(ctx context.Context, set *models.LoggedSet) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	f.sets = append(f.sets, *set)
	return nil
}

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestImportRun verifies the full import flow: known exercises are
// inserted, unknown ones skipped, and a second run dedupes via state DB.
func TestImportRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "march.csv", `performed_at,exercise,equipment,weight_lbs,reps,rpe
2026-03-08T10:15:00Z,Bench Press,Barbell,135.0,10,8
2026-03-08T10:25:00Z,Mystery Lift,Barbell,95.0,5,
`)

	db := &fakeWriter{catalog: []models.Exercise{
		{ID: uuid.New(), Name: "Bench Press", Engagement: models.EngagementMap{"Pectoralis_Major": 85}},
	}}

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	imp := New(db, state, testLogger())
	stats, err := imp.Run(context.Background(), dir, 1, false)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if stats.FilesScanned != 1 || stats.SetsImported != 1 || stats.SetsSkipped != 1 {
		t.Errorf("stats = %+v, want 1 scanned, 1 imported, 1 skipped", stats)
	}
	if len(db.sets) != 1 {
		t.Fatalf("inserted sets = %d, want 1", len(db.sets))
	}
	if db.sets[0].UserID != 1 || db.sets[0].WeightLbs != 135 {
		t.Errorf("inserted set = %+v", db.sets[0])
	}

	// Second run: file unchanged, nothing re-imported.
	stats, err = imp.Run(context.Background(), dir, 1, false)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if stats.FilesSkipped != 1 || stats.SetsImported != 0 {
		t.Errorf("second run stats = %+v, want file skipped", stats)
	}
	if len(db.sets) != 1 {
		t.Errorf("inserted sets after rerun = %d, want 1", len(db.sets))
	}
}

// TestImportDryRun verifies dry-run counts sets without writing or
// recording state.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "sets.csv", `performed_at,exercise,equipment,weight_lbs,reps,rpe
2026-03-08T10:15:00Z,Bench Press,Barbell,135.0,10,8
`)

	db := &fakeWriter{catalog: []models.Exercise{
		{ID: uuid.New(), Name: "Bench Press", Engagement: models.EngagementMap{"Pectoralis_Major": 85}},
	}}

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	imp := New(db, state, testLogger())
	stats, err := imp.Run(context.Background(), dir, 1, true)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if stats.SetsImported != 1 {
		t.Errorf("dry-run imported = %d, want 1 (counted only)", stats.SetsImported)
	}
	if len(db.sets) != 0 {
		t.Errorf("inserted sets = %d, want 0 in dry run", len(db.sets))
	}

	// Dry run must not mark the file; a real run afterwards imports it.
	stats, err = imp.Run(context.Background(), dir, 1, false)
	if err != nil {
		t.Fatalf("real run error: %v", err)
	}
	if stats.SetsImported != 1 || len(db.sets) != 1 {
		t.Errorf("real run after dry run: stats = %+v, sets = %d", stats, len(db.sets))
	}
}

// TestImportCaseInsensitiveLookup verifies exercise names match
// regardless of case.
func TestImportCaseInsensitiveLookup(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "sets.csv", `performed_at,exercise,equipment,weight_lbs,reps,rpe
2026-03-08T10:15:00Z,bench press,Barbell,135.0,10,8
`)

	db := &fakeWriter{catalog: []models.Exercise{
		{ID: uuid.New(), Name: "Bench Press", Engagement: models.EngagementMap{"Pectoralis_Major": 85}},
	}}

	imp := New(db, nil, testLogger())
	stats, err := imp.Run(context.Background(), dir, 1, false)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if stats.SetsImported != 1 {
		t.Errorf("imported = %d, want 1", stats.SetsImported)
	}
}

// TestImportInvalidSetSkipped verifies out-of-range rows are skipped, not fatal.
func TestImportInvalidSetSkipped(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "sets.csv", `performed_at,exercise,equipment,weight_lbs,reps,rpe
2026-03-08T10:15:00Z,Bench Press,Barbell,135.1,10,8
`)

	db := &fakeWriter{catalog: []models.Exercise{
		{ID: uuid.New(), Name: "Bench Press", Engagement: models.EngagementMap{"Pectoralis_Major": 85}},
	}}

	imp := New(db, nil, testLogger())
	stats, err := imp.Run(context.Background(), dir, 1, false)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if stats.SetsSkipped != 1 || stats.SetsImported != 0 {
		t.Errorf("stats = %+v, want 1 skipped off-increment weight", stats)
	}
}

// TestStateDB verifies the size+hash dedupe check.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	done, err := state.IsImported("a.csv", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh state reports file imported")
	}

	if err := state.MarkImported("a.csv", 100, "abc"); err != nil {
		t.Fatal(err)
	}

	done, err = state.IsImported("a.csv", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}

	// A changed file (different hash) must be re-imported.
	done, err = state.IsImported("a.csv", 100, "def")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("changed file reported as imported")
	}
}
