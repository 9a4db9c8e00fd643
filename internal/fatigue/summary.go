package fatigue

import (
	"sort"
	"time"

	"github.com/claude/repforge/internal/models"
)

// GroupSummary aggregates fatigue for one training group.
type GroupSummary struct {
	Group      models.MuscleGroup `json:"muscle_group"`
	AvgFatigue float64            `json:"average_fatigue_percentage"`
	ReadyCount int                `json:"ready_muscles_count"`
	Muscles    int                `json:"total_muscles"`
}

// OverallReadiness summarizes whole-body training readiness.
type OverallReadiness struct {
	AvgFatiguePct float64 `json:"average_fatigue_percentage"`
	ReadyMuscles  int     `json:"ready_muscles_count"`
	TotalMuscles  int     `json:"total_muscles_tracked"`
	ReadinessPct  float64 `json:"readiness_percentage"`
}

// SummarizeGroups rolls per-muscle states up into per-group summaries,
// ordered Push, Pull, Legs, Core, Other (groups with no tracked muscles
// are omitted).
func SummarizeGroups(states map[string]models.MuscleFatigueState, cfg Config) []GroupSummary {
	byGroup := make(map[models.MuscleGroup]*GroupSummary)
	for _, state := range states {
		g, ok := byGroup[state.Group]
		if !ok {
			g = &GroupSummary{Group: state.Group}
			byGroup[state.Group] = g
		}
		g.AvgFatigue += state.FatiguePct
		g.Muscles++
		if state.FatiguePct < cfg.ReadyThresholdPct {
			g.ReadyCount++
		}
	}

	order := []models.MuscleGroup{models.GroupPush, models.GroupPull, models.GroupLegs, models.GroupCore, models.GroupOther}
	summaries := make([]GroupSummary, 0, len(byGroup))
	for _, group := range order {
		if g, ok := byGroup[group]; ok {
			g.AvgFatigue /= float64(g.Muscles)
			summaries = append(summaries, *g)
		}
	}
	return summaries
}

// Readiness computes the whole-body readiness block shown alongside
// muscle states.
func Readiness(states map[string]models.MuscleFatigueState, cfg Config) OverallReadiness {
	var r OverallReadiness
	if len(states) == 0 {
		return r
	}
	for _, state := range states {
		r.AvgFatiguePct += state.FatiguePct
		if state.FatiguePct < cfg.ReadyThresholdPct {
			r.ReadyMuscles++
		}
	}
	r.TotalMuscles = len(states)
	r.AvgFatiguePct /= float64(r.TotalMuscles)
	r.ReadinessPct = float64(r.ReadyMuscles) / float64(r.TotalMuscles) * 100
	return r
}

// Advice translates overall readiness into a short training suggestion.
func Advice(r OverallReadiness) string {
	switch {
	case r.AvgFatiguePct > 60:
		return "Consider a rest day - overall fatigue is high"
	case r.ReadinessPct > 70:
		return "Good time for an intense training session"
	case r.ReadinessPct > 40:
		return "Moderate training recommended - focus on recovered muscles"
	default:
		return "Light training or active recovery recommended"
	}
}

// HeatMapEntry is one muscle's payload for the anatomical heat-map view.
type HeatMapEntry struct {
	FatiguePct           float64    `json:"fatigue_percentage"`
	RecoveryPct          float64    `json:"recovery_percentage"`
	WeeklyVolumeLbs      float64    `json:"weekly_volume_lbs"`
	LastTrained          *time.Time `json:"last_trained_date,omitempty"`
	ExpectedRecoveryDate *time.Time `json:"expected_recovery_date,omitempty"`
}

// HeatMap is the full heat-map visualization payload.
type HeatMap struct {
	Muscles     map[string]HeatMapEntry `json:"muscle_data"`
	ColorScale  map[string]string       `json:"color_scale"`
	LastUpdated *time.Time              `json:"last_updated,omitempty"`
	Total       int                     `json:"total_muscles"`
}

// heatMapColorScale buckets fatigue percentages into display colors,
// green (ready) through dark red (very high fatigue).
var heatMapColorScale = map[string]string{
	"0-20":   "#22c55e",
	"21-40":  "#eab308",
	"41-60":  "#f97316",
	"61-80":  "#ef4444",
	"81-100": "#991b1b",
}

// BuildHeatMap formats muscle states for the heat-map endpoint.
func BuildHeatMap(states map[string]models.MuscleFatigueState) HeatMap {
	hm := HeatMap{
		Muscles:    make(map[string]HeatMapEntry, len(states)),
		ColorScale: heatMapColorScale,
		Total:      len(states),
	}
	for muscle, state := range states {
		hm.Muscles[muscle] = HeatMapEntry{
			FatiguePct:           state.FatiguePct,
			RecoveryPct:          state.RecoveryPct,
			WeeklyVolumeLbs:      state.WeeklyVolumeLbs,
			LastTrained:          state.LastTrained,
			ExpectedRecoveryDate: state.ExpectedRecoveryDate,
		}
		if hm.LastUpdated == nil || state.CalculatedAt.After(*hm.LastUpdated) {
			t := state.CalculatedAt
			hm.LastUpdated = &t
		}
	}
	return hm
}

// SortedStates returns states ordered by fatigue descending, then name,
// for stable API output.
func SortedStates(states map[string]models.MuscleFatigueState) []models.MuscleFatigueState {
	out := make([]models.MuscleFatigueState, 0, len(states))
	for _, s := range states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FatiguePct != out[j].FatiguePct {
			return out[i].FatiguePct > out[j].FatiguePct
		}
		return out[i].MuscleName < out[j].MuscleName
	})
	return out
}
