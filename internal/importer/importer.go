package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/repforge/internal/models"
)

// SetWriter is the subset of the storage layer the importer needs.
type SetWriter interface {
	ListExercises(ctx context.Context, equipment, muscle string) ([]models.Exercise, error)
	InsertLoggedSet(ctx context.Context, set *models.LoggedSet) error
}

// Stats summarizes one import run.
type Stats struct {
	FilesScanned int
	FilesSkipped int
	SetsImported int
	SetsSkipped  int
}

// Importer loads CSV exports from a directory into the database.
type Importer struct {
	db    SetWriter
	state *StateDB
	log   *slog.Logger
}

// New creates an Importer. state may be nil, in which case no dedupe
// tracking happens (every file is processed on every run).
func New(db SetWriter, state *StateDB, log *slog.Logger) *Importer {
	return &Importer{db: db, state: state, log: log}
}

// Run imports all *.csv files under dir for the given user. With dryRun
// set, files are parsed and validated but nothing is written.
func (imp *Importer) Run(ctx context.Context, dir string, userID int, dryRun bool) (Stats, error) {
	var stats Stats

	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return stats, fmt.Errorf("scanning %s: %w", dir, err)
	}
	sort.Strings(paths)

	catalog, err := imp.exerciseIndex(ctx)
	if err != nil {
		return stats, err
	}

	for _, path := range paths {
		stats.FilesScanned++

		info, err := os.Stat(path)
		if err != nil {
			return stats, fmt.Errorf("stat %s: %w", path, err)
		}
		hash, err := HashFile(path)
		if err != nil {
			return stats, fmt.Errorf("hashing %s: %w", path, err)
		}

		rel := filepath.Base(path)
		if imp.state != nil {
			done, err := imp.state.IsImported(rel, info.Size(), hash)
			if err != nil {
				return stats, fmt.Errorf("state check %s: %w", path, err)
			}
			if done {
				stats.FilesSkipped++
				imp.log.Info("already imported, skipping", "file", rel)
				continue
			}
		}

		imported, skipped, err := imp.importFile(ctx, path, userID, catalog, dryRun)
		if err != nil {
			return stats, err
		}
		stats.SetsImported += imported
		stats.SetsSkipped += skipped

		if imp.state != nil && !dryRun {
			if err := imp.state.MarkImported(rel, info.Size(), hash); err != nil {
				return stats, fmt.Errorf("state update %s: %w", path, err)
			}
		}
		imp.log.Info("file processed", "file", rel, "imported", imported, "skipped", skipped, "dry_run", dryRun)
	}

	return stats, nil
}

func (imp *Importer) importFile(ctx context.Context, path string, userID int, catalog map[string]models.Exercise, dryRun bool) (imported, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, row := range parsed {
		ex, ok := catalog[strings.ToLower(row.ExerciseName)]
		if !ok {
			// Unknown exercises are skipped rather than auto-created: a set
			// without an engagement map would never contribute to fatigue.
			imp.log.Warn("unknown exercise, skipping set", "exercise", row.ExerciseName, "performed_at", row.PerformedAt)
			skipped++
			continue
		}

		set := models.LoggedSet{
			UserID:      userID,
			ExerciseID:  ex.ID,
			WeightLbs:   row.WeightLbs,
			Reps:        row.Reps,
			Exertion:    row.Exertion,
			PerformedAt: row.PerformedAt,
		}
		if err := set.Validate(); err != nil {
			imp.log.Warn("invalid set, skipping", "exercise", row.ExerciseName, "error", err)
			skipped++
			continue
		}

		if dryRun {
			imported++
			continue
		}
		if err := imp.db.InsertLoggedSet(ctx, &set); err != nil {
			return imported, skipped, fmt.Errorf("inserting set for %s: %w", row.ExerciseName, err)
		}
		imported++
	}
	return imported, skipped, nil
}

// exerciseIndex builds a case-insensitive name lookup over the catalog.
func (imp *Importer) exerciseIndex(ctx context.Context) (map[string]models.Exercise, error) {
	exercises, err := imp.db.ListExercises(ctx, "", "")
	if err != nil {
		return nil, fmt.Errorf("loading exercise catalog: %w", err)
	}

	index := make(map[string]models.Exercise, len(exercises))
	for _, ex := range exercises {
		index[strings.ToLower(ex.Name)] = ex
	}
	return index, nil
}
