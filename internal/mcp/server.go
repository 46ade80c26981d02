package mcp

import (
	"context"
	"log/slog"

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
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Volumetric", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Volumetric training analytics server. Query load progression, weekly training volume per muscle group, and volume landmark state. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetLoadProgression, Handler: h.getLoadProgression},
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolGetVolumeLandmarks, Handler: h.getVolumeLandmarks},
		server.ServerTool{Tool: toolGetMuscleGroups, Handler: h.getMuscleGroups},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentLandmarks, Handler: h.currentLandmarks},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentLandmarks = mcp.NewResource(
	"volumetric://current_landmarks",
	"Current Volume Landmarks",
	mcp.WithResourceDescription("Per-muscle-group volume landmark state: MV/MEV/MAV/MRV bounds, current and target weekly set counts, and the latest recovery and adaptation scores"),
	mcp.WithMIMEType("application/json"),
)
