package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/program"
	"github.com/claude/trainload/internal/resolver"
	"github.com/claude/trainload/internal/volume"
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
func New(ds DataSource, kb *knowledge.Base, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("TrainLoad", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("TrainLoad training analysis server. Query weekly training volume per muscle, validate programs, check recovery state, and inspect the current mesocycle phase. All analysis is deterministic and scoped to the authenticated user."),
	)

	res := resolver.New(kb)
	h := &handlers{
		ds:        ds,
		kb:        kb,
		resolver:  res,
		agg:       volume.New(kb, res),
		validator: program.New(kb, res),
		log:       log,
	}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWeeklyVolume, Handler: h.getWeeklyVolume},
		server.ServerTool{Tool: toolGetVolumeHistory, Handler: h.getVolumeHistory},
		server.ServerTool{Tool: toolGetVolumeSummary, Handler: h.getVolumeSummary},
		server.ServerTool{Tool: toolValidateProgram, Handler: h.validateProgram},
		server.ServerTool{Tool: toolGetRecovery, Handler: h.getRecovery},
		server.ServerTool{Tool: toolPreviewAdjustment, Handler: h.previewAdjustment},
		server.ServerTool{Tool: toolGetMesocycle, Handler: h.getMesocycle},
		server.ServerTool{Tool: toolResolveExercise, Handler: h.resolveExercise},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resVolumeSummary, Handler: h.volumeSummary},
		server.ServerResource{Resource: resCurrentProgram, Handler: h.currentProgram},
		server.ServerResource{Resource: resRecoveryState, Handler: h.recoveryState},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	kb        *knowledge.Base
	resolver  *resolver.Resolver
	agg       *volume.Aggregator
	validator *program.Validator
	log       *slog.Logger
}

// --- Resource definitions ---

var resVolumeSummary = mcp.NewResource(
	"trainload://volume_summary",
	"Weekly Volume Summary",
	mcp.WithResourceDescription("Compressed current-week volume overview: per-muscle set counts vs optimal bands, balance score, and overall status"),
	mcp.WithMIMEType("application/json"),
)

var resCurrentProgram = mcp.NewResource(
	"trainload://current_program",
	"Current Program",
	mcp.WithResourceDescription("The user's active weekly training program (baseline, without mesocycle scaling)"),
	mcp.WithMIMEType("application/json"),
)

var resRecoveryState = mcp.NewResource(
	"trainload://recovery",
	"Recovery State",
	mcp.WithResourceDescription("Recovery analysis over the last sessions plus the resulting training recommendation"),
	mcp.WithMIMEType("application/json"),
)
