package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/rptlog/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentDays = 14

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
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

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	workouts, err := h.db.Workouts(ctx)
	if err != nil {
		return nil, err
	}
	since := h.now().AddDate(0, 0, -recentDays)
	return jsonContents(req.Params.URI, filterWorkouts(workouts, "", since))
}

func (h *handlers) programmes(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	progs, err := h.db.Programmes(ctx)
	if err != nil {
		return nil, err
	}
	if progs == nil {
		progs = []models.Programme{}
	}
	return jsonContents(req.Params.URI, map[string]any{
		"rotation":   h.opts.Rotation,
		"programmes": progs,
	})
}
