package mcp

import (
	"context"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetMuscleFatigue = mcp.NewTool("get_muscle_fatigue",
	mcp.WithDescription("Current fatigue state for every tracked muscle: fatigue/recovery percentages, weekly volume, last trained date, and expected recovery date. Includes per-group summaries and overall readiness."),
	mcp.WithString("muscle", mcp.Description("Filter to a single muscle (canonical name, e.g. Pectoralis_Major)")),
)

var toolGetRecoveryTimeline = mcp.NewTool("get_recovery_timeline",
	mcp.WithDescription("Project per-muscle fatigue forward day by day, assuming no further training. Shows when each muscle will be ready again."),
	mcp.WithNumber("days", mcp.Description("Number of future days to project (1-30). Defaults to 7.")),
)

var toolGetOverloadRecommendations = mcp.NewTool("get_overload_recommendations",
	mcp.WithDescription("Progressive-overload suggestions for recovered muscles: next weight/reps per exercise based on recent bests, ordered by priority."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of recommendations. Defaults to 5.")),
)

var toolGetRecentSets = mcp.NewTool("get_recent_sets",
	mcp.WithDescription("Query logged sets in a time range. Returns weight, reps, perceived exertion, estimated 1RM, and personal-best flags."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetMuscleHistory = mcp.NewTool("get_muscle_history",
	mcp.WithDescription("Daily fatigue snapshot series for one muscle, oldest first."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Canonical muscle name (e.g. Quadriceps)")),
	mcp.WithNumber("days", mcp.Description("How many days back to include. Defaults to 30.")),
)

var toolGetTrainingStats = mcp.NewTool("get_training_stats",
	mcp.WithDescription("Aggregate training statistics: total sets, personal bests, date range covered, and most-logged exercises."),
)

// --- Tool handlers ---

func (h *handlers) getMuscleFatigue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	states, err := h.ds.LatestMuscleStates(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_muscle_fatigue", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if muscle := req.GetString("muscle", ""); muscle != "" {
		state, ok := states[muscle]
		if !ok {
			return mcp.NewToolResultError("no fatigue state for muscle " + muscle), nil
		}
		result, err := mcp.NewToolResultJSON(state)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	readiness := fatigue.Readiness(states, h.fcfg)
	payload := map[string]any{
		"muscles":   fatigue.SortedStates(states),
		"groups":    fatigue.SummarizeGroups(states, h.fcfg),
		"readiness": readiness,
		"advice":    fatigue.Advice(readiness),
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecoveryTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 7)
	if days < 1 || days > 30 {
		return mcp.NewToolResultError("days must be between 1 and 30"), nil
	}

	uid := UserIDFromContext(ctx)
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -(h.fcfg.LookbackDays + 1))

	sets, err := h.ds.QuerySetsWindow(ctx, uid, start, now.Add(time.Second))
	if err != nil {
		h.log.Error("mcp get_recovery_timeline", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	expected := make(map[string]string)
	for muscle, state := range fatigue.Compute(sets, now, h.fcfg) {
		if d := fatigue.PredictRecoveryDate(state.LastTrained, state.FatiguePct); d != nil {
			expected[muscle] = d.Format("2006-01-02")
		}
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"timeline":               fatigue.RecoveryTimeline(sets, now, days, h.fcfg),
		"expected_full_recovery": expected,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getOverloadRecommendations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 5)
	if limit < 1 || limit > 50 {
		return mcp.NewToolResultError("limit must be between 1 and 50"), nil
	}

	uid := UserIDFromContext(ctx)
	states, err := h.ds.LatestMuscleStates(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_overload_recommendations", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	bests, err := h.ds.BestSetsSince(ctx, uid, fatigue.BestSetWindow(time.Now().UTC(), h.fcfg))
	if err != nil {
		h.log.Error("mcp get_overload_recommendations", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	recs := fatigue.Recommend(bests, states, h.fcfg)
	if len(recs) > limit {
		recs = recs[:limit]
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"recommendations": recs,
		"recovered":       fatigue.RecoveredMuscles(states, h.fcfg),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	sets, err := h.ds.QuerySetsWindow(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_recent_sets", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMuscleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	muscle, err := req.RequireString("muscle")
	if err != nil {
		return mcp.NewToolResultError("muscle parameter is required"), nil
	}

	days := req.GetInt("days", 30)
	if days < 1 || days > 365 {
		return mcp.NewToolResultError("days must be between 1 and 365"), nil
	}

	uid := UserIDFromContext(ctx)
	history, err := h.ds.MuscleHistory(ctx, uid, muscle, days)
	if err != nil {
		h.log.Error("mcp get_muscle_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.GetDataStats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_training_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
