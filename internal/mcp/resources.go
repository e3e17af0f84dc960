package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/trainload/internal/autoreg"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) volumeSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	profile, logs, err := h.profileAndLogs(ctx, 2)
	if err != nil {
		return nil, err
	}
	summary := h.agg.VolumeSummary(logs, profile.Experience, time.Now())
	return jsonResource(req.Params.URI, summary)
}

func (h *handlers) currentProgram(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	p, err := h.ds.CurrentProgram(ctx, uid)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, p)
}

func (h *handlers) recoveryState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	logs, err := h.ds.RecentWorkoutLogs(ctx, uid, 2, time.Now())
	if err != nil {
		return nil, err
	}

	analysis := autoreg.Analyze(logs, autoreg.DefaultWindow)
	return jsonResource(req.Params.URI, map[string]any{
		"analysis":       analysis,
		"recommendation": autoreg.Recommend(analysis),
	})
}
