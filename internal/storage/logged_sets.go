package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertLoggedSet validates and inserts one set, computing the derived
// 1RM estimate and personal-best flag. The PB rule: no prior set of the
// same exercise at an equal-or-greater rep count used equal-or-greater
// weight.
func (db *DB) InsertLoggedSet(ctx context.Context, set *models.LoggedSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}

	if est, ok := models.EstimateOneRepMax(set.WeightLbs, set.Reps); ok {
		set.EstimatedOneRepMax = &est
	} else {
		set.EstimatedOneRepMax = nil
	}

	pb, err := db.isPersonalBest(ctx, set.UserID, set.ExerciseID, set.WeightLbs, set.Reps, set.PerformedAt)
	if err != nil {
		return err
	}
	set.IsPersonalBest = pb

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO logged_sets (id, user_id, exercise_id, weight_lbs, reps,
			perceived_exertion, performed_at, estimated_one_rep_max, is_personal_best)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, set.ID, set.UserID, set.ExerciseID, set.WeightLbs, set.Reps,
		set.Exertion, set.PerformedAt, set.EstimatedOneRepMax, set.IsPersonalBest)
	if err != nil {
		return fmt.Errorf("inserting logged set: %w", err)
	}
	return nil
}

// UpdateLoggedSet applies a soft weight/reps correction and recomputes
// the derived fields. Historical fatigue snapshots are left untouched;
// callers invalidate them separately when recomputation is wanted.
func (db *DB) UpdateLoggedSet(ctx context.Context, id uuid.UUID, userID int, weight *float64, reps *int) (*models.LoggedSet, error) {
	set, err := db.GetLoggedSet(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if weight != nil {
		set.WeightLbs = *weight
	}
	if reps != nil {
		set.Reps = *reps
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	if est, ok := models.EstimateOneRepMax(set.WeightLbs, set.Reps); ok {
		set.EstimatedOneRepMax = &est
	} else {
		set.EstimatedOneRepMax = nil
	}
	pb, err := db.isPersonalBest(ctx, set.UserID, set.ExerciseID, set.WeightLbs, set.Reps, set.PerformedAt)
	if err != nil {
		return nil, err
	}
	set.IsPersonalBest = pb

	_, err = db.Pool.Exec(ctx, `
		UPDATE logged_sets
		SET weight_lbs = $1, reps = $2, estimated_one_rep_max = $3,
		    is_personal_best = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, set.WeightLbs, set.Reps, set.EstimatedOneRepMax, set.IsPersonalBest, id, userID)
	if err != nil {
		return nil, fmt.Errorf("updating logged set: %w", err)
	}
	return set, nil
}

// GetLoggedSet retrieves one set scoped to a user.
func (db *DB) GetLoggedSet(ctx context.Context, id uuid.UUID, userID int) (*models.LoggedSet, error) {
	var set models.LoggedSet
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, exercise_id, weight_lbs, reps, perceived_exertion,
		       performed_at, estimated_one_rep_max, is_personal_best
		FROM logged_sets WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&set.ID, &set.UserID, &set.ExerciseID, &set.WeightLbs, &set.Reps,
		&set.Exertion, &set.PerformedAt, &set.EstimatedOneRepMax, &set.IsPersonalBest)
	if err != nil {
		return nil, fmt.Errorf("querying logged set: %w", err)
	}
	return &set, nil
}

// DeleteLoggedSet removes a set. Returns the deleted set's performed-at
// timestamp so the caller can invalidate fatigue snapshots that included
// it.
func (db *DB) DeleteLoggedSet(ctx context.Context, id uuid.UUID, userID int) (time.Time, error) {
	var performedAt time.Time
	err := db.Pool.QueryRow(ctx, `
		DELETE FROM logged_sets WHERE id = $1 AND user_id = $2
		RETURNING performed_at
	`, id, userID).Scan(&performedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("deleting logged set: %w", err)
	}
	return performedAt, nil
}

// QuerySetsWindow retrieves a user's sets in [start, end), joined with
// the owning exercise's engagement map so the fatigue calculator never
// performs catalog lookups itself.
func (db *DB) QuerySetsWindow(ctx context.Context, userID int, start, end time.Time) ([]models.LoggedSet, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT s.id, s.user_id, s.exercise_id, s.weight_lbs, s.reps,
		       s.perceived_exertion, s.performed_at, s.estimated_one_rep_max,
		       s.is_personal_best, e.muscle_engagement
		FROM logged_sets s
		JOIN exercises e ON s.exercise_id = e.id
		WHERE s.user_id = $1 AND s.performed_at >= $2 AND s.performed_at < $3
		ORDER BY s.performed_at ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var sets []models.LoggedSet
	for rows.Next() {
		var set models.LoggedSet
		var engagement []byte
		if err := rows.Scan(&set.ID, &set.UserID, &set.ExerciseID, &set.WeightLbs, &set.Reps,
			&set.Exertion, &set.PerformedAt, &set.EstimatedOneRepMax,
			&set.IsPersonalBest, &engagement); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		if err := json.Unmarshal(engagement, &set.Engagement); err != nil {
			return nil, fmt.Errorf("decoding engagement map: %w", err)
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// BestSetsSince returns each exercise's best set by estimated 1RM since
// the given date, feeding the overload recommender. Sets without a
// defined 1RM estimate (bodyweight, singles) are skipped.
func (db *DB) BestSetsSince(ctx context.Context, userID int, since time.Time) ([]fatigue.ExerciseBest, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT ON (s.exercise_id)
		       s.exercise_id, e.name, e.muscle_engagement, s.weight_lbs, s.reps
		FROM logged_sets s
		JOIN exercises e ON s.exercise_id = e.id
		WHERE s.user_id = $1 AND s.performed_at >= $2
		  AND s.estimated_one_rep_max IS NOT NULL
		  AND e.is_active = true
		ORDER BY s.exercise_id, s.estimated_one_rep_max DESC, s.performed_at DESC
	`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("querying best sets: %w", err)
	}
	defer rows.Close()

	var bests []fatigue.ExerciseBest
	for rows.Next() {
		var b fatigue.ExerciseBest
		var engagement []byte
		if err := rows.Scan(&b.ExerciseID, &b.Name, &engagement, &b.WeightLbs, &b.Reps); err != nil {
			return nil, fmt.Errorf("scanning best set: %w", err)
		}
		if err := json.Unmarshal(engagement, &b.Engagement); err != nil {
			return nil, fmt.Errorf("decoding engagement map: %w", err)
		}
		bests = append(bests, b)
	}
	return bests, rows.Err()
}

// isPersonalBest reports whether no prior set of the exercise matched or
// beat the candidate on both reps and weight.
func (db *DB) isPersonalBest(ctx context.Context, userID int, exerciseID uuid.UUID, weight float64, reps int, performedAt time.Time) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM logged_sets
			WHERE user_id = $1 AND exercise_id = $2 AND performed_at < $3
			  AND reps >= $4 AND weight_lbs >= $5
		)
	`, userID, exerciseID, performedAt, reps, weight).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking personal best: %w", err)
	}
	return !exists, nil
}

// ErrNoRows is re-exported so handlers need not import pgx directly.
var ErrNoRows = pgx.ErrNoRows
