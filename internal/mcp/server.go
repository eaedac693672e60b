package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(backend Backend, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("FitCart", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("FitCart workout server. Browse the exercise catalog, build a workout cart, then run a guided session one set or cardio block at a time. Also estimates BMR/TDEE from the stored profile."),
	)

	h := &handlers{backend: backend, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetCart, Handler: h.getCart},
		server.ServerTool{Tool: toolAddToCart, Handler: h.addToCart},
		server.ServerTool{Tool: toolUpdateCartItem, Handler: h.updateCartItem},
		server.ServerTool{Tool: toolRemoveFromCart, Handler: h.removeFromCart},
		server.ServerTool{Tool: toolClearCart, Handler: h.clearCart},
		server.ServerTool{Tool: toolStartSession, Handler: h.startSession},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolCompleteCurrent, Handler: h.completeCurrent},
		server.ServerTool{Tool: toolCompleteSet, Handler: h.completeSet},
		server.ServerTool{Tool: toolCompleteCardio, Handler: h.completeCardio},
		server.ServerTool{Tool: toolMarkDone, Handler: h.markDone},
		server.ServerTool{Tool: toolCancelSession, Handler: h.cancelSession},
		server.ServerTool{Tool: toolEstimateEnergy, Handler: h.estimateEnergy},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
		server.ServerResource{Resource: resCurrentSession, Handler: h.currentSession},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	backend Backend
	log     *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"fitcart://catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("Every exercise grouped by body part, with IDs usable in add_to_cart"),
	mcp.WithMIMEType("application/json"),
)

var resCurrentSession = mcp.NewResource(
	"fitcart://session",
	"Current Session",
	mcp.WithResourceDescription("State of the guided session in progress, or null when none is running"),
	mcp.WithMIMEType("application/json"),
)
