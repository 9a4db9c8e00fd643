package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/models"
	"github.com/go-chi/chi/v5"
)

// refreshStates recomputes today's fatigue snapshots from set history and
// persists them. When force is false and a snapshot for today already
// exists, the cached states are returned untouched.
func (s *Server) refreshStates(ctx context.Context, userID int, force bool) (map[string]models.MuscleFatigueState, error) {
	now := time.Now().UTC()

	if !force {
		fresh, err := s.db.HasStatesForDate(ctx, userID, now)
		if err != nil {
			return nil, err
		}
		if fresh {
			return s.db.LatestMuscleStates(ctx, userID)
		}
	}

	start := now.AddDate(0, 0, -(s.fcfg.LookbackDays + 1))
	sets, err := s.db.QuerySetsWindow(ctx, userID, start, now.Add(time.Second))
	if err != nil {
		return nil, err
	}

	states := fatigue.Compute(sets, now, s.fcfg)
	if len(states) > 0 {
		if _, err := s.db.UpsertMuscleStates(ctx, userID, states); err != nil {
			return nil, err
		}
	}
	return states, nil
}

// muscleStatesResponse is the full fatigue dashboard payload.
type muscleStatesResponse struct {
	Muscles   []models.MuscleFatigueState `json:"muscles"`
	Groups    []fatigue.GroupSummary      `json:"groups"`
	Readiness fatigue.OverallReadiness    `json:"readiness"`
	Advice    string                      `json:"advice"`
}

func (s *Server) handleMuscleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.refreshStates(r.Context(), userIDFromContext(r), false)
	if err != nil {
		s.log.Error("muscle state refresh failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	readiness := fatigue.Readiness(states, s.fcfg)
	writeJSON(w, http.StatusOK, muscleStatesResponse{
		Muscles:   fatigue.SortedStates(states),
		Groups:    fatigue.SummarizeGroups(states, s.fcfg),
		Readiness: readiness,
		Advice:    fatigue.Advice(readiness),
	})
}

func (s *Server) handleCalculateMuscleStates(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	states, err := s.refreshStates(r.Context(), userIDFromContext(r), force)
	if err != nil {
		s.log.Error("muscle state calculation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"calculated": len(states),
		"forced":     force,
	})
}

func (s *Server) handleHeatMap(w http.ResponseWriter, r *http.Request) {
	states, err := s.refreshStates(r.Context(), userIDFromContext(r), false)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, fatigue.BuildHeatMap(states))
}

// muscleHistoryResponse is a muscle's snapshot series with a coarse trend
// label ("increasing", "decreasing", or "stable").
type muscleHistoryResponse struct {
	Muscle  string                      `json:"muscle"`
	Days    int                         `json:"days"`
	Trend   string                      `json:"trend"`
	History []models.MuscleFatigueState `json:"history"`
}

func (s *Server) handleMuscleHistory(w http.ResponseWriter, r *http.Request) {
	muscle := chi.URLParam(r, "muscle")
	days := intQuery(r, "days", 30)
	if days < 1 || days > 365 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be between 1 and 365"})
		return
	}

	history, err := s.db.MuscleHistory(r.Context(), userIDFromContext(r), muscle, days)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, muscleHistoryResponse{
		Muscle:  muscle,
		Days:    days,
		Trend:   fatigueTrend(history),
		History: history,
	})
}

// fatigueTrend compares the first and last snapshots in a series. Swings
// below 5 points are reported as stable.
func fatigueTrend(history []models.MuscleFatigueState) string {
	if len(history) < 2 {
		return "stable"
	}
	delta := history[len(history)-1].FatiguePct - history[0].FatiguePct
	switch {
	case delta > 5:
		return "increasing"
	case delta < -5:
		return "decreasing"
	default:
		return "stable"
	}
}

func (s *Server) handleRecoveryTimeline(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 7)
	if days < 1 || days > 30 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "days must be between 1 and 30"})
		return
	}

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -(s.fcfg.LookbackDays + 1))
	sets, err := s.db.QuerySetsWindow(r.Context(), userIDFromContext(r), start, now.Add(time.Second))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"days":                   days,
		"timeline":               fatigue.RecoveryTimeline(sets, now, days, s.fcfg),
		"expected_full_recovery": expectedRecoveryDates(fatigue.Compute(sets, now, s.fcfg)),
	})
}

// expectedRecoveryDates maps each fatigued muscle to its tier-based full
// recovery date. Muscles already negligible are omitted.
func expectedRecoveryDates(states map[string]models.MuscleFatigueState) map[string]string {
	out := make(map[string]string)
	for muscle, state := range states {
		if d := fatigue.PredictRecoveryDate(state.LastTrained, state.FatiguePct); d != nil {
			out[muscle] = d.Format("2006-01-02")
		}
	}
	return out
}

// handleBestSets exposes the per-exercise recent bests that feed the
// recommender. Remote MCP clients consume this directly.
func (s *Server) handleBestSets(w http.ResponseWriter, r *http.Request) {
	since := fatigue.BestSetWindow(time.Now().UTC(), s.fcfg)
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "since must be YYYY-MM-DD"})
			return
		}
		since = parsed
	}

	bests, err := s.db.BestSetsSince(r.Context(), userIDFromContext(r), since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bests)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 5)
	if limit < 1 || limit > 50 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 50"})
		return
	}

	uid := userIDFromContext(r)
	states, err := s.refreshStates(r.Context(), uid, false)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	since := fatigue.BestSetWindow(time.Now().UTC(), s.fcfg)
	bests, err := s.db.BestSetsSince(r.Context(), uid, since)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	recs := fatigue.Recommend(bests, states, s.fcfg)
	if len(recs) > limit {
		recs = recs[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recommendations": recs,
		"recovered":       fatigue.RecoveredMuscles(states, s.fcfg),
	})
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
