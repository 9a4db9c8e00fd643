package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, fcfg fatigue.Config, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepForge", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepForge training data server. Query muscle fatigue states, recovery projections, progressive-overload recommendations, and logged set history. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, fcfg: fcfg, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetMuscleFatigue, Handler: h.getMuscleFatigue},
		server.ServerTool{Tool: toolGetRecoveryTimeline, Handler: h.getRecoveryTimeline},
		server.ServerTool{Tool: toolGetOverloadRecommendations, Handler: h.getOverloadRecommendations},
		server.ServerTool{Tool: toolGetRecentSets, Handler: h.getRecentSets},
		server.ServerTool{Tool: toolGetMuscleHistory, Handler: h.getMuscleHistory},
		server.ServerTool{Tool: toolGetTrainingStats, Handler: h.getTrainingStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentFatigue, Handler: h.currentFatigue},
		server.ServerResource{Resource: resRecentSets, Handler: h.recentSets},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds   DataSource
	fcfg fatigue.Config
	log  *slog.Logger
}

// --- Resource definitions ---

var resCurrentFatigue = mcp.NewResource(
	"repforge://current_fatigue",
	"Current Muscle Fatigue",
	mcp.WithResourceDescription("Latest per-muscle fatigue snapshots with group summaries and overall training readiness"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSets = mcp.NewResource(
	"repforge://recent_sets",
	"Recent Sets",
	mcp.WithResourceDescription("Logged sets from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)
