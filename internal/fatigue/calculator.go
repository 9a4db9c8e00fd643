package fatigue

import (
	"time"

	"github.com/claude/repforge/internal/models"
)

// Compute folds logged sets into one MuscleFatigueState per muscle that
// received non-zero engagement during the lookback window ending at asOf.
// Muscles absent from the result carry no fatigue: callers treat "absent"
// as fully recovered.
//
// The computation is idempotent and performs no I/O; the same sets and
// asOf date always produce identical output. Sets outside the window are
// ignored (hard cutoff, not a decay to zero). Out-of-range field values
// are the ingestion boundary's problem: this function only clamps the
// accumulated fatigue to [0, 100].
func Compute(sets []models.LoggedSet, asOf time.Time, cfg Config) map[string]models.MuscleFatigueState {
	asOfDate := dateOnly(asOf)

	type muscleAccum struct {
		fatigue      float64
		weeklyVolume float64
		weeklySets   int
		trainingDays map[string]struct{}
		lastTrained  time.Time
	}
	accum := make(map[string]*muscleAccum)

	for i := range sets {
		set := &sets[i]
		setDate := dateOnly(set.PerformedAt)
		daysAgo := daysBetween(setDate, asOfDate)
		if daysAgo < 0 || daysAgo > cfg.LookbackDays {
			continue
		}

		recovered := float64(daysAgo) * cfg.DailyRecoveryRate
		if recovered > 1 {
			recovered = 1
		}
		remaining := 1 - recovered

		exertion := cfg.DefaultExertion
		if set.Exertion != nil {
			exertion = *set.Exertion
		}
		exertionFactor := float64(exertion) / 10
		volumeFactor := set.Volume() / cfg.VolumeDivisor

		for muscle, pct := range set.Engagement {
			if pct <= 0 {
				continue
			}
			a, ok := accum[muscle]
			if !ok {
				a = &muscleAccum{trainingDays: make(map[string]struct{})}
				accum[muscle] = a
			}

			engagement := float64(pct) / 100
			a.fatigue += engagement * volumeFactor * exertionFactor * remaining * cfg.FatigueScale
			a.weeklyVolume += set.Volume() * engagement
			a.weeklySets++
			a.trainingDays[setDate.Format("2006-01-02")] = struct{}{}
			if setDate.After(a.lastTrained) {
				a.lastTrained = setDate
			}
		}
	}

	states := make(map[string]models.MuscleFatigueState, len(accum))
	for muscle, a := range accum {
		fatigue := clamp(a.fatigue, 0, 100)

		state := models.MuscleFatigueState{
			MuscleName:         muscle,
			Group:              models.GroupOf(muscle),
			FatiguePct:         fatigue,
			RecoveryPct:        100 - fatigue,
			WeeklyVolumeLbs:    a.weeklyVolume,
			WeeklySets:         a.weeklySets,
			WeeklyTrainingDays: len(a.trainingDays),
			CalculatedAt:       asOf,
		}
		if !a.lastTrained.IsZero() {
			lt := a.lastTrained
			state.LastTrained = &lt
			if fatigue > cfg.MinTrackingPct {
				rec := lt.AddDate(0, 0, cfg.RecoveryDays)
				state.ExpectedRecoveryDate = &rec
			}
		}
		states[muscle] = state
	}
	return states
}

// dateOnly truncates a timestamp to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole-day difference b - a for date-only values.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
