package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) currentFatigue(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	states, err := h.ds.LatestMuscleStates(ctx, uid)
	if err != nil {
		return nil, err
	}

	readiness := fatigue.Readiness(states, h.fcfg)
	payload := map[string]any{
		"muscles":   fatigue.SortedStates(states),
		"groups":    fatigue.SummarizeGroups(states, h.fcfg),
		"readiness": readiness,
		"advice":    fatigue.Advice(readiness),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentSets(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	end := time.Now()
	start := end.AddDate(0, 0, -14)

	sets, err := h.ds.QuerySetsWindow(ctx, uid, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sets)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
