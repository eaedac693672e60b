package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fitcart/internal/catalog"
	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/workout"
)

type catalogGroup struct {
	BodyPart  models.BodyPart   `json:"body_part"`
	Label     string            `json:"label"`
	Exercises []models.Exercise `json:"exercises"`
}

func (h *handlers) catalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	groups := make([]catalogGroup, 0, len(models.BodyParts))
	for _, bp := range models.BodyParts {
		groups = append(groups, catalogGroup{BodyPart: bp, Label: bp.Label(), Exercises: catalog.ByBodyPart(bp)})
	}
	return jsonContents(req.Params.URI, groups)
}

func (h *handlers) currentSession(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	st, err := h.backend.Session(ctx)
	if err != nil {
		if !errors.Is(err, workout.ErrNoSession) {
			return nil, err
		}
		return jsonContents(req.Params.URI, nil)
	}
	return jsonContents(req.Params.URI, st)
}

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
