package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/repforge/internal/models"
)

// UpsertMuscleStates writes fatigue snapshots keyed by (user, muscle,
// calculation date). The computation is deterministic and reproducible
// from logged sets, so last-write-wins is the conflict policy.
func (db *DB) UpsertMuscleStates(ctx context.Context, userID int, states map[string]models.MuscleFatigueState) (int, error) {
	var written int
	for _, state := range states {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO muscle_states (user_id, muscle_name, muscle_group,
				fatigue_percentage, recovery_percentage, weekly_volume_lbs,
				weekly_sets, weekly_training_days, last_trained_date,
				expected_recovery_date, calculated_at, calculation_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11::date)
			ON CONFLICT (user_id, muscle_name, calculation_date) DO UPDATE SET
				muscle_group = EXCLUDED.muscle_group,
				fatigue_percentage = EXCLUDED.fatigue_percentage,
				recovery_percentage = EXCLUDED.recovery_percentage,
				weekly_volume_lbs = EXCLUDED.weekly_volume_lbs,
				weekly_sets = EXCLUDED.weekly_sets,
				weekly_training_days = EXCLUDED.weekly_training_days,
				last_trained_date = EXCLUDED.last_trained_date,
				expected_recovery_date = EXCLUDED.expected_recovery_date,
				calculated_at = EXCLUDED.calculated_at
		`, userID, state.MuscleName, state.Group,
			state.FatiguePct, state.RecoveryPct, state.WeeklyVolumeLbs,
			state.WeeklySets, state.WeeklyTrainingDays, state.LastTrained,
			state.ExpectedRecoveryDate, state.CalculatedAt)
		if err != nil {
			return written, fmt.Errorf("upserting muscle state %s: %w", state.MuscleName, err)
		}
		written++
	}
	return written, nil
}

// LatestMuscleStates returns the most recent snapshot per muscle for a
// user. Muscles absent from the result carry no fatigue.
func (db *DB) LatestMuscleStates(ctx context.Context, userID int) (map[string]models.MuscleFatigueState, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT ON (muscle_name)
		       user_id, muscle_name, muscle_group, fatigue_percentage,
		       recovery_percentage, weekly_volume_lbs, weekly_sets,
		       weekly_training_days, last_trained_date, expected_recovery_date,
		       calculated_at
		FROM muscle_states
		WHERE user_id = $1
		ORDER BY muscle_name, calculation_date DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying muscle states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]models.MuscleFatigueState)
	for rows.Next() {
		state, err := scanMuscleState(rows)
		if err != nil {
			return nil, err
		}
		states[state.MuscleName] = *state
	}
	return states, rows.Err()
}

// HasStatesForDate reports whether snapshots already exist for the given
// calculation date, so routine recalculation can be skipped unless forced.
func (db *DB) HasStatesForDate(ctx context.Context, userID int, date time.Time) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM muscle_states WHERE user_id = $1 AND calculation_date = $2::date
		)
	`, userID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking muscle states: %w", err)
	}
	return exists, nil
}

// InvalidateStatesSince removes snapshots whose calculation date is on or
// after the given date. Used when a set is deleted or corrected: any
// computation that could have included it is no longer trustworthy.
func (db *DB) InvalidateStatesSince(ctx context.Context, userID int, since time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM muscle_states WHERE user_id = $1 AND calculation_date >= $2::date
	`, userID, since)
	if err != nil {
		return 0, fmt.Errorf("invalidating muscle states: %w", err)
	}
	return tag.RowsAffected(), nil
}

// MuscleHistory returns a muscle's snapshots over the trailing daysBack
// days, oldest first.
func (db *DB) MuscleHistory(ctx context.Context, userID int, muscle string, daysBack int) ([]models.MuscleFatigueState, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT user_id, muscle_name, muscle_group, fatigue_percentage,
		       recovery_percentage, weekly_volume_lbs, weekly_sets,
		       weekly_training_days, last_trained_date, expected_recovery_date,
		       calculated_at
		FROM muscle_states
		WHERE user_id = $1 AND muscle_name = $2
		  AND calculation_date >= CURRENT_DATE - $3::int
		ORDER BY calculation_date ASC
	`, userID, muscle, daysBack)
	if err != nil {
		return nil, fmt.Errorf("querying muscle history: %w", err)
	}
	defer rows.Close()

	var history []models.MuscleFatigueState
	for rows.Next() {
		state, err := scanMuscleState(rows)
		if err != nil {
			return nil, err
		}
		history = append(history, *state)
	}
	return history, rows.Err()
}

func scanMuscleState(row rowScanner) (*models.MuscleFatigueState, error) {
	var state models.MuscleFatigueState
	err := row.Scan(&state.UserID, &state.MuscleName, &state.Group,
		&state.FatiguePct, &state.RecoveryPct, &state.WeeklyVolumeLbs,
		&state.WeeklySets, &state.WeeklyTrainingDays, &state.LastTrained,
		&state.ExpectedRecoveryDate, &state.CalculatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning muscle state: %w", err)
	}
	return &state, nil
}
