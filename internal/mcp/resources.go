package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/technique"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) landmarks(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	table, err := h.ds.Landmarks(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, table)
}

func (h *handlers) techniqueCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, technique.Catalog())
}

func (h *handlers) activeSplit(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plan, err := h.ds.ActivePlan(ctx, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, coach.ErrUnavailable) {
		return jsonResource(req.Params.URI, nil)
	}
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, plan)
}

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
