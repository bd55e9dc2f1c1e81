package mcp

import (
	"context"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/plateau"
	"github.com/claude/liftplan/internal/volume"
)

// DataSource abstracts the engine for MCP tools. Both *coach.Service (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	Target(ctx context.Context, userID int, exercise string, repRange *overload.RepRange) (overload.Target, error)
	Plateau(ctx context.Context, userID int, exercise string) (plateau.Result, error)
	Landmarks(ctx context.Context) (map[models.MuscleGroup]volume.Landmark, error)
	VolumeReport(ctx context.Context, userID int) (*coach.VolumeReport, error)
	PreviewPlan(ctx context.Context, userID int, opts coach.PlanOptions) (models.SplitPlan, error)
	ActivePlan(ctx context.Context, userID int) (*models.SplitPlan, error)
	Expand(ctx context.Context, userID int, req coach.ExpandRequest) (*coach.Expansion, error)
	Deload(ctx context.Context, userID int) (*coach.DeloadReport, error)
}

// Compile-time check: *coach.Service satisfies DataSource.
var _ DataSource = (*coach.Service)(nil)
