package models

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	// WeightIncrementLbs is the smallest weight step supported by the
	// catalog; all logged weights must be quantized to it.
	WeightIncrementLbs = 0.25

	MinReps = 1
	MaxReps = 50

	MinExertion = 1
	MaxExertion = 10
)

// LoggedSet is one completed set of an exercise. Immutable once created
// except for soft weight/reps corrections, which recompute the derived
// 1RM estimate and personal-best flag but never rewrite historical
// fatigue snapshots.
type LoggedSet struct {
	ID         uuid.UUID `json:"id"`
	UserID     int       `json:"user_id"`
	ExerciseID uuid.UUID `json:"exercise_id"`
	WeightLbs  float64   `json:"weight_lbs"`
	Reps       int       `json:"reps"`
	// Exertion is the perceived exertion (RPE 1-10); nil when untracked.
	Exertion    *int      `json:"perceived_exertion,omitempty"`
	PerformedAt time.Time `json:"performed_at"`

	// Derived fields, recomputed on create and on weight/reps edits.
	EstimatedOneRepMax *float64 `json:"estimated_one_rep_max,omitempty"`
	IsPersonalBest     bool     `json:"is_personal_best"`

	// Engagement is the owning exercise's engagement map, resolved by the
	// storage layer so the fatigue calculator never performs lookups. It is
	// serialized so API consumers can run the calculator on fetched sets;
	// it is ignored on ingestion.
	Engagement EngagementMap `json:"muscle_engagement,omitempty"`
}

// Validate enforces the ingestion-boundary ranges. The fatigue calculator
// assumes sets passed to it already satisfy these.
func (s *LoggedSet) Validate() error {
	if s.ExerciseID == uuid.Nil {
		return fmt.Errorf("exercise_id is required")
	}
	if s.WeightLbs < 0 {
		return fmt.Errorf("weight must be non-negative, got %.2f", s.WeightLbs)
	}
	if RoundToQuarterPound(s.WeightLbs) != s.WeightLbs {
		return fmt.Errorf("weight must be in %.2f lb increments, got %.3f", WeightIncrementLbs, s.WeightLbs)
	}
	if s.Reps < MinReps || s.Reps > MaxReps {
		return fmt.Errorf("reps must be %d-%d, got %d", MinReps, MaxReps, s.Reps)
	}
	if s.Exertion != nil && (*s.Exertion < MinExertion || *s.Exertion > MaxExertion) {
		return fmt.Errorf("perceived exertion must be %d-%d, got %d", MinExertion, MaxExertion, *s.Exertion)
	}
	if s.PerformedAt.IsZero() {
		return fmt.Errorf("performed_at is required")
	}
	return nil
}

// Volume returns weight x reps in pounds.
func (s *LoggedSet) Volume() float64 {
	return s.WeightLbs * float64(s.Reps)
}

// RoundToQuarterPound rounds a weight to the nearest 0.25 lb increment.
func RoundToQuarterPound(weight float64) float64 {
	return math.Round(weight/WeightIncrementLbs) * WeightIncrementLbs
}

// EstimateOneRepMax estimates a one-rep max from a submaximal set using
// the Epley formula, weight x (1 + reps/30). The estimate is undefined
// for bodyweight-only sets and true single reps; ok is false in that case.
func EstimateOneRepMax(weight float64, reps int) (float64, bool) {
	if weight <= 0 || reps <= 1 {
		return 0, false
	}
	return weight * (1 + float64(reps)/30), true
}
