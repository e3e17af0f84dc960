package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/trainload/internal/autoreg"
	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// historyWeeksMax bounds the volume history window a tool call can request.
const historyWeeksMax = 26

func clampWeeks(weeks int) int {
	if weeks < 1 {
		return 1
	}
	if weeks > historyWeeksMax {
		return historyWeeksMax
	}
	return weeks
}

// --- Tool definitions ---

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Per-muscle working set counts for the current training week (Monday-aligned), compared against the user's volume bands. Includes direct and fractional indirect sets, status per muscle, and recommendations."),
)

var toolGetVolumeHistory = mcp.NewTool("get_volume_history",
	mcp.WithDescription("Weekly volume reports for the last N weeks, oldest first. Useful for spotting volume trends per muscle."),
	mcp.WithNumber("weeks", mcp.Description("Number of weeks to include. Defaults to 4, max 26.")),
)

var toolGetVolumeSummary = mcp.NewTool("get_volume_summary",
	mcp.WithDescription("Compressed volume overview: primary/secondary muscle buckets, balance score 0-100, and overall status. Cheaper than the full weekly report."),
)

var toolValidateProgram = mcp.NewTool("validate_program",
	mcp.WithDescription("Validate a training program draft: muscle coverage, weekly volume vs bands, duplicates, and push/pull balance. Returns issues with severities and a 0-100 score. Pass the program as JSON with sessions and exercises."),
	mcp.WithString("program_json", mcp.Required(), mcp.Description(`Program as JSON, e.g. {"name":"PPL","sessions":[{"name":"Push","exercises":[{"name":"Bench Press","sets":4}]}]}`)),
	mcp.WithString("experience", mcp.Description("Experience tier for band lookup: beginner, intermediate, or advanced. Defaults to the stored profile."), mcp.Enum("beginner", "intermediate", "advanced")),
)

var toolGetRecovery = mcp.NewTool("get_recovery_analysis",
	mcp.WithDescription("Recovery analysis over the recent session window: status (optimal/under_recovered/under_stimulated), pump and soreness averages, performance trend, pain reports, and the resulting set/load recommendation."),
)

var toolPreviewAdjustment = mcp.NewTool("preview_program_adjustment",
	mcp.WithDescription("Apply the current recovery recommendation to the stored program and return the adjusted version without saving it. Shows what the next autoregulated week would look like."),
)

var toolGetMesocycle = mcp.NewTool("get_mesocycle",
	mcp.WithDescription("Current mesocycle position: week number, phase (intro/accumulation/overreaching/deload), and the volume multiplier applied to displayed programs."),
)

var toolResolveExercise = mcp.NewTool("resolve_exercise",
	mcp.WithDescription("Resolve a free-form exercise name to its primary and secondary muscles via the built-in catalog and keyword fallback."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name as a lifter would write it, e.g. 'incline DB press'")),
)

// --- Tool handlers ---

// profileAndLogs loads what most analysis tools need: the profile and
// the recent log window.
func (h *handlers) profileAndLogs(ctx context.Context, weeks int) (models.UserProfile, []models.WorkoutLog, error) {
	uid := UserIDFromContext(ctx)
	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		return models.UserProfile{}, nil, err
	}
	logs, err := h.ds.RecentWorkoutLogs(ctx, uid, weeks, time.Now())
	if err != nil {
		return models.UserProfile{}, nil, err
	}
	return profile, logs, nil
}

func (h *handlers) getWeeklyVolume(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, logs, err := h.profileAndLogs(ctx, 2)
	if err != nil {
		h.log.Error("mcp get_weekly_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	report := h.agg.WeeklyVolume(logs, profile.Experience, time.Now())
	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := clampWeeks(req.GetInt("weeks", 4))

	profile, logs, err := h.profileAndLogs(ctx, weeks+1)
	if err != nil {
		h.log.Error("mcp get_volume_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	history := h.agg.VolumeHistory(logs, profile.Experience, weeks, time.Now())
	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, logs, err := h.profileAndLogs(ctx, 2)
	if err != nil {
		h.log.Error("mcp get_volume_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	summary := h.agg.VolumeSummary(logs, profile.Experience, time.Now())
	result, err := mcp.NewToolResultJSON(summary)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) validateProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programJSON, err := req.RequireString("program_json")
	if err != nil {
		return mcp.NewToolResultError("program_json parameter is required"), nil
	}

	var p models.Program
	if err := json.Unmarshal([]byte(programJSON), &p); err != nil {
		return mcp.NewToolResultError("invalid program JSON: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	profile, err := h.ds.GetProfile(ctx, uid)
	if err != nil {
		h.log.Error("mcp validate_program", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if tier := req.GetString("experience", ""); tier != "" {
		profile.Experience = knowledge.ParseTier(tier)
	}

	result, err := mcp.NewToolResultJSON(h.validator.Validate(&p, profile))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecovery(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	logs, err := h.ds.RecentWorkoutLogs(ctx, uid, 2, time.Now())
	if err != nil {
		h.log.Error("mcp get_recovery_analysis", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	analysis := autoreg.Analyze(logs, autoreg.DefaultWindow)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"analysis":       analysis,
		"recommendation": autoreg.Recommend(analysis),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) previewAdjustment(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	p, err := h.ds.CurrentProgram(ctx, uid)
	if err != nil {
		return mcp.NewToolResultError("no current program: " + err.Error()), nil
	}
	logs, err := h.ds.RecentWorkoutLogs(ctx, uid, 2, time.Now())
	if err != nil {
		h.log.Error("mcp preview_program_adjustment", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	adjusted, rec := autoreg.Apply(p, logs)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"program":        adjusted,
		"recommendation": rec,
		"changed":        adjusted != p,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMesocycle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	state, err := h.ds.GetMesocycle(ctx, uid, time.Now())
	if err != nil {
		h.log.Error("mcp get_mesocycle", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(state)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) resolveExercise(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	res := h.resolver.Resolve(name)
	def := h.resolver.Definition(name)
	resp := map[string]any{
		"name":      name,
		"primary":   res.Primary,
		"secondary": res.Secondary,
		"matched":   def != nil,
	}
	if def != nil {
		resp["canonical"] = def.Name
	}

	result, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
