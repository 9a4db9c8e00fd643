package mcp

import (
	"context"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/models"
	"github.com/claude/repforge/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QuerySetsWindow(ctx context.Context, userID int, start, end time.Time) ([]models.LoggedSet, error)
	BestSetsSince(ctx context.Context, userID int, since time.Time) ([]fatigue.ExerciseBest, error)
	LatestMuscleStates(ctx context.Context, userID int) (map[string]models.MuscleFatigueState, error)
	MuscleHistory(ctx context.Context, userID int, muscle string, daysBack int) ([]models.MuscleFatigueState, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
