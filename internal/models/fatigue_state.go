package models

import (
	"time"

	"github.com/google/uuid"
)

// MuscleFatigueState is the derived per-(user, muscle) snapshot produced
// by the fatigue calculator. It is a cache over the logged-set history
// within the lookback window, safe to regenerate at any time; the set
// history remains the source of truth.
type MuscleFatigueState struct {
	UserID     int         `json:"user_id"`
	MuscleName string      `json:"muscle_name"`
	Group      MuscleGroup `json:"muscle_group"`

	FatiguePct  float64 `json:"fatigue_percentage"`
	RecoveryPct float64 `json:"recovery_percentage"`

	WeeklyVolumeLbs    float64 `json:"weekly_volume_lbs"`
	WeeklySets         int     `json:"weekly_sets"`
	WeeklyTrainingDays int     `json:"weekly_training_days"`

	LastTrained          *time.Time `json:"last_trained_date,omitempty"`
	ExpectedRecoveryDate *time.Time `json:"expected_recovery_date,omitempty"`
	CalculatedAt         time.Time  `json:"calculated_at"`
}

// OverloadRecommendation is a per-(user, exercise) progressive-overload
// suggestion. Ephemeral: recomputed on demand, never persisted as
// authoritative.
type OverloadRecommendation struct {
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`

	RecommendedWeightLbs float64 `json:"recommended_weight_lbs"`
	RecommendedReps      int     `json:"recommended_reps"`

	BasisWeightLbs float64 `json:"basis_weight_lbs"`
	BasisReps      int     `json:"basis_reps"`

	TargetIncreasePct float64  `json:"target_increase_pct"`
	TargetMuscles     []string `json:"target_muscles"`
	PriorityScore     float64  `json:"priority_score"`
}
