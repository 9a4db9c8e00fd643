package fatigue

import (
	"sort"
	"time"

	"github.com/claude/repforge/internal/models"
	"github.com/google/uuid"
)

// ExerciseBest is a user's best recent set for one exercise, selected by
// estimated 1RM over the best-set window. The storage layer resolves the
// engagement map before handing these to the recommender.
type ExerciseBest struct {
	ExerciseID uuid.UUID            `json:"exercise_id"`
	Name       string               `json:"exercise_name"`
	Engagement models.EngagementMap `json:"muscle_engagement"`
	WeightLbs  float64              `json:"weight_lbs"`
	Reps       int                  `json:"reps"`
}

// Recommend derives progressive-overload targets from recent per-exercise
// bests and the current fatigue states. An exercise qualifies when at
// least one recovered muscle is engaged above the qualifying threshold.
// Muscles absent from states are treated as fully recovered (0% fatigue).
//
// Each recommendation changes something: when the target weight increase
// rounds below one quarter-pound increment, weight holds and reps go up
// by one instead. Results are ordered by priority score descending;
// callers truncate to fit available session time.
func Recommend(history []ExerciseBest, states map[string]models.MuscleFatigueState, cfg Config) []models.OverloadRecommendation {
	fatigueOf := func(muscle string) float64 {
		if state, ok := states[muscle]; ok {
			return state.FatiguePct
		}
		return 0
	}
	recovered := func(muscle string) bool {
		return fatigueOf(muscle) < cfg.ReadyThresholdPct
	}

	var recs []models.OverloadRecommendation
	for _, best := range history {
		var targets []string
		for _, muscle := range best.Engagement.PrimaryMuscles(cfg.QualifyingEngagementPct) {
			if recovered(muscle) {
				targets = append(targets, muscle)
			}
		}
		if len(targets) == 0 {
			continue
		}
		sort.Strings(targets)

		// The raw increase is checked before quantization: a light load
		// whose percentage bump is under one increment progresses through
		// rep count instead, so every recommendation changes something.
		newWeight := best.WeightLbs
		newReps := best.Reps
		if best.WeightLbs*cfg.TargetIncreasePct/100 < models.WeightIncrementLbs {
			newReps++
		} else {
			newWeight = models.RoundToQuarterPound(best.WeightLbs * (1 + cfg.TargetIncreasePct/100))
		}

		var priority float64
		for muscle, pct := range best.Engagement {
			if pct > 0 && recovered(muscle) {
				priority += 100 - fatigueOf(muscle)
			}
		}

		recs = append(recs, models.OverloadRecommendation{
			ExerciseID:           best.ExerciseID,
			ExerciseName:         best.Name,
			RecommendedWeightLbs: newWeight,
			RecommendedReps:      newReps,
			BasisWeightLbs:       best.WeightLbs,
			BasisReps:            best.Reps,
			TargetIncreasePct:    cfg.TargetIncreasePct,
			TargetMuscles:        targets,
			PriorityScore:        priority,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].PriorityScore != recs[j].PriorityScore {
			return recs[i].PriorityScore > recs[j].PriorityScore
		}
		return recs[i].ExerciseName < recs[j].ExerciseName
	})
	return recs
}

// BestSetWindow returns the start of the trailing best-set window ending
// at asOf.
func BestSetWindow(asOf time.Time, cfg Config) time.Time {
	return dateOnly(asOf).AddDate(0, 0, -cfg.BestSetWindowDays)
}
