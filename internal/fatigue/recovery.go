package fatigue

import (
	"sort"
	"time"

	"github.com/claude/repforge/internal/models"
)

// PredictRecoveryDate estimates when a muscle will be fully recovered
// using a coarse fatigue-tier model. It returns nil when the muscle has
// never been trained or its fatigue is already negligible (<= 10%).
//
// This is a finer-grained estimate than the flat lastTrained+RecoveryDays
// projection the calculator writes into snapshots; the recovery-timeline
// endpoint uses this one.
func PredictRecoveryDate(lastTrained *time.Time, fatiguePct float64) *time.Time {
	if lastTrained == nil || fatiguePct <= 10 {
		return nil
	}

	var days int
	switch {
	case fatiguePct >= 80:
		days = 5
	case fatiguePct >= 60:
		days = 4
	case fatiguePct >= 40:
		days = 3
	case fatiguePct >= 20:
		days = 2
	default:
		days = 1
	}

	d := lastTrained.AddDate(0, 0, days)
	return &d
}

// TimelineDay is the projected fatigue state for one future date.
type TimelineDay struct {
	Date       string             `json:"date"`
	Muscles    map[string]float64 `json:"muscles"`
	ReadyCount int                `json:"ready_count"`
}

// RecoveryTimeline projects per-muscle fatigue for each of the next days
// starting at from, by re-running the calculator with future as-of dates.
// Idempotence of Compute makes the projection exact rather than a decay
// approximation.
func RecoveryTimeline(sets []models.LoggedSet, from time.Time, days int, cfg Config) []TimelineDay {
	timeline := make([]TimelineDay, 0, days)
	for d := 0; d < days; d++ {
		asOf := dateOnly(from).AddDate(0, 0, d)
		states := Compute(sets, asOf, cfg)

		day := TimelineDay{
			Date:    asOf.Format("2006-01-02"),
			Muscles: make(map[string]float64, len(states)),
		}
		for muscle, state := range states {
			day.Muscles[muscle] = state.FatiguePct
			if state.FatiguePct < cfg.ReadyThresholdPct {
				day.ReadyCount++
			}
		}
		timeline = append(timeline, day)
	}
	return timeline
}

// RecoveredMuscles returns the sorted names of muscles whose fatigue is
// below the ready threshold. Muscles absent from states are fully
// recovered but unknown to the caller, so only tracked muscles appear.
func RecoveredMuscles(states map[string]models.MuscleFatigueState, cfg Config) []string {
	var recovered []string
	for muscle, state := range states {
		if state.FatiguePct < cfg.ReadyThresholdPct {
			recovered = append(recovered, muscle)
		}
	}
	sort.Strings(recovered)
	return recovered
}
