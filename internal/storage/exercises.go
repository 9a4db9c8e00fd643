package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/repforge/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateExercise inserts a catalog entry. The engagement map is validated
// at this boundary; the fatigue calculator assumes catalog entries are
// already well-formed.
func (db *DB) CreateExercise(ctx context.Context, ex *models.Exercise) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	if ex.ID == uuid.Nil {
		ex.ID = uuid.New()
	}

	engagement, err := json.Marshal(ex.Engagement)
	if err != nil {
		return fmt.Errorf("encoding engagement map: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `
		INSERT INTO exercises (id, name, equipment, muscle_engagement, is_active)
		VALUES ($1, $2, $3, $4, true)
		RETURNING created_at, updated_at
	`, ex.ID, ex.Name, ex.Equipment, engagement).Scan(&ex.CreatedAt, &ex.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting exercise: %w", err)
	}
	ex.IsActive = true
	return nil
}

// GetExercise retrieves one catalog entry by ID.
func (db *DB) GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT id, name, equipment, muscle_engagement, is_active, created_at, updated_at
		FROM exercises WHERE id = $1
	`, id)
	return scanExercise(row)
}

// ListExercises retrieves active catalog entries, optionally filtered by
// equipment or by a muscle the exercise engages above zero.
func (db *DB) ListExercises(ctx context.Context, equipment, muscle string) ([]models.Exercise, error) {
	query := `
		SELECT id, name, equipment, muscle_engagement, is_active, created_at, updated_at
		FROM exercises
		WHERE is_active = true`
	args := []any{}

	if equipment != "" {
		args = append(args, equipment)
		query += fmt.Sprintf(" AND equipment = $%d", len(args))
	}
	if muscle != "" {
		args = append(args, muscle)
		query += fmt.Sprintf(" AND (muscle_engagement->>$%d)::int > 0", len(args))
	}
	query += " ORDER BY name"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	var exercises []models.Exercise
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *ex)
	}
	return exercises, rows.Err()
}

// DeactivateExercise soft-deletes a catalog entry so historical sets keep
// their engagement reference.
func (db *DB) DeactivateExercise(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE exercises SET is_active = false, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("deactivating exercise: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*models.Exercise, error) {
	var ex models.Exercise
	var engagement []byte
	err := row.Scan(&ex.ID, &ex.Name, &ex.Equipment, &engagement, &ex.IsActive, &ex.CreatedAt, &ex.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning exercise: %w", err)
	}
	if err := json.Unmarshal(engagement, &ex.Engagement); err != nil {
		return nil, fmt.Errorf("decoding engagement map: %w", err)
	}
	return &ex, nil
}
