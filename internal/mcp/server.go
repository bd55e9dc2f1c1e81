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
	s := server.NewMCPServer("liftplan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("liftplan training engine. Read progressive targets, plateau state, technique expansions, volume landmarks and split plans for the exercise-selection step. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProgressiveTarget, Handler: h.getProgressiveTarget},
		server.ServerTool{Tool: toolDetectPlateau, Handler: h.detectPlateau},
		server.ServerTool{Tool: toolExpandTechnique, Handler: h.expandTechnique},
		server.ServerTool{Tool: toolListTechniques, Handler: h.listTechniques},
		server.ServerTool{Tool: toolGenerateSplit, Handler: h.generateSplit},
		server.ServerTool{Tool: toolGetActiveSplit, Handler: h.getActiveSplit},
		server.ServerTool{Tool: toolGetVolumeReport, Handler: h.getVolumeReport},
		server.ServerTool{Tool: toolAssessDeload, Handler: h.assessDeload},
		server.ServerTool{Tool: toolGetFrequencyRange, Handler: h.getFrequencyRange},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resLandmarks, Handler: h.landmarks},
		server.ServerResource{Resource: resTechniqueCatalog, Handler: h.techniqueCatalog},
		server.ServerResource{Resource: resActiveSplit, Handler: h.activeSplit},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resLandmarks = mcp.NewResource(
	"liftplan://landmarks",
	"Volume Landmarks",
	mcp.WithResourceDescription("Weekly MEV/MAV/MRV set landmarks per muscle for the configured approach"),
	mcp.WithMIMEType("application/json"),
)

var resTechniqueCatalog = mcp.NewResource(
	"liftplan://technique_catalog",
	"Technique Catalog",
	mcp.WithResourceDescription("All intensity techniques with their expansion support"),
	mcp.WithMIMEType("application/json"),
)

var resActiveSplit = mcp.NewResource(
	"liftplan://active_split",
	"Active Split",
	mcp.WithResourceDescription("The user's active split plan, or null when none exists"),
	mcp.WithMIMEType("application/json"),
)
