package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored data.
type DataStats struct {
	TotalSets      int64            `json:"total_sets"`
	TotalExercises int64            `json:"total_exercises"`
	PersonalBests  int64            `json:"personal_bests"`
	EarliestSet    *time.Time       `json:"earliest_set,omitempty"`
	LatestSet      *time.Time       `json:"latest_set,omitempty"`
	TopExercises   []ExerciseVolume `json:"top_exercises"`
}

// ExerciseVolume holds lifetime volume stats for a single exercise.
type ExerciseVolume struct {
	Name      string  `json:"name"`
	Sets      int64   `json:"sets"`
	TotalReps int64   `json:"total_reps"`
	Tonnage   float64 `json:"tonnage_lbs"`
}

// GetDataStats returns aggregate statistics for a user's logged training.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_personal_best),
		       MIN(performed_at), MAX(performed_at)
		FROM logged_sets WHERE user_id = $1
	`, userID).Scan(&stats.TotalSets, &stats.PersonalBests, &stats.EarliestSet, &stats.LatestSet)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT exercise_id) FROM logged_sets WHERE user_id = $1
	`, userID).Scan(&stats.TotalExercises)
	if err != nil {
		return nil, fmt.Errorf("counting exercises: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT e.name, COUNT(*), COALESCE(SUM(s.reps), 0),
		       COALESCE(SUM(s.weight_lbs * s.reps), 0)
		FROM logged_sets s
		JOIN exercises e ON s.exercise_id = e.id
		WHERE s.user_id = $1
		GROUP BY e.name
		ORDER BY COUNT(*) DESC
		LIMIT 10
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying top exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev ExerciseVolume
		if err := rows.Scan(&ev.Name, &ev.Sets, &ev.TotalReps, &ev.Tonnage); err != nil {
			return nil, fmt.Errorf("scanning exercise volume: %w", err)
		}
		stats.TopExercises = append(stats.TopExercises, ev)
	}
	return stats, rows.Err()
}
