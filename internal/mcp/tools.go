package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/split"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/technique"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetProgressiveTarget = mcp.NewTool("get_progressive_target",
	mcp.WithDescription("Next weight and reps for an exercise, computed by double progression from the most recent working sets."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name as logged (e.g. 'Bench Press')")),
	mcp.WithNumber("min_reps", mcp.Description("Bottom of the rep range. Defaults to the configured range.")),
	mcp.WithNumber("max_reps", mcp.Description("Top of the rep range. Defaults to the configured range.")),
)

var toolDetectPlateau = mcp.NewTool("detect_plateau",
	mcp.WithDescription("Classify an exercise as progressing, stalled or plateaued. Plateaued exercises carry a suggested action (escalate_technique or rotate_exercise)."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name as logged")),
)

var toolExpandTechnique = mcp.NewTool("expand_technique",
	mcp.WithDescription("Expand an intensity technique into the concrete set list. When exercise is given and weight or reps is omitted, the progressive target fills them in."),
	mcp.WithObject("technique", mcp.Description(`Technique as {"type": "...", "config": {...}}, e.g. {"type":"drop_set","config":{"drops":2,"drop_percentage":20}}. Omit for straight sets.`)),
	mcp.WithString("exercise", mcp.Description("Exercise name used to look up the base prescription")),
	mcp.WithNumber("weight", mcp.Description("Base load in kg")),
	mcp.WithNumber("reps", mcp.Description("Base reps per set")),
	mcp.WithNumber("sets", mcp.Description("Base working sets. Defaults to 3.")),
)

var toolListTechniques = mcp.NewTool("list_techniques",
	mcp.WithDescription("List every intensity technique and whether it expands into distinct sets."),
)

var toolGenerateSplit = mcp.NewTool("generate_split",
	mcp.WithDescription("Build (without saving) a training split that specializes one muscle. Returns the cycle, per-muscle frequency and weekly volume."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Specialization muscle (e.g. side_delts, quads)")),
	mcp.WithNumber("weekly_frequency", mcp.Required(), mcp.Description("Training days per week, 1-7")),
	mcp.WithString("aggressiveness", mcp.Description("Volume multiplier level. Defaults to moderate."), mcp.Enum("moderate", "high", "very_high")),
	mcp.WithNumber("target_frequency", mcp.Description("Override for specialization days per cycle")),
)

var toolGetActiveSplit = mcp.NewTool("get_active_split",
	mcp.WithDescription("The user's currently active split plan."),
)

var toolGetVolumeReport = mcp.NewTool("get_volume_report",
	mcp.WithDescription("Weekly sets per muscle classified against MEV/MAV/MRV landmarks, the change from last week, and progress against the active split."),
)

var toolAssessDeload = mcp.NewTool("assess_deload",
	mcp.WithDescription("Recommend a deload when at least two of three fatigue triggers fire: many stalled exercises, muscles over MRV, low average RIR."),
)

var toolGetFrequencyRange = mcp.NewTool("get_frequency_range",
	mcp.WithDescription("Recommended weekly training frequency for a muscle based on its size class."),
	mcp.WithString("muscle", mcp.Required(), mcp.Description("Muscle group")),
)

// --- Tool handlers ---

func (h *handlers) getProgressiveTarget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	var rr *overload.RepRange
	lo, hi := req.GetInt("min_reps", 0), req.GetInt("max_reps", 0)
	if lo > 0 || hi > 0 {
		if lo < 1 || hi < lo {
			return mcp.NewToolResultError("min_reps and max_reps must satisfy 1 <= min_reps <= max_reps"), nil
		}
		rr = &overload.RepRange{Min: lo, Max: hi}
	}

	target, err := h.ds.Target(ctx, UserIDFromContext(ctx), exercise, rr)
	if err != nil {
		h.log.Error("mcp get_progressive_target", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(target)
}

func (h *handlers) detectPlateau(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	result, err := h.ds.Plateau(ctx, UserIDFromContext(ctx), exercise)
	if err != nil {
		h.log.Error("mcp detect_plateau", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(result)
}

func (h *handlers) expandTechnique(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expand := coach.ExpandRequest{
		Exercise: req.GetString("exercise", ""),
		Weight:   req.GetFloat("weight", 0),
		Reps:     req.GetInt("reps", 0),
		Sets:     req.GetInt("sets", 0),
	}
	if raw, ok := req.GetArguments()["technique"]; ok && raw != nil {
		data, err := json.Marshal(raw)
		if err != nil {
			return mcp.NewToolResultError("invalid technique: " + err.Error()), nil
		}
		expand.Technique = data
	}

	exp, err := h.ds.Expand(ctx, UserIDFromContext(ctx), expand)
	if err != nil {
		if errors.Is(err, coach.ErrInvalid) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.log.Error("mcp expand_technique", "error", err)
		return mcp.NewToolResultError("expansion failed: " + err.Error()), nil
	}
	return jsonResult(exp)
}

func (h *handlers) listTechniques(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(technique.Catalog())
}

func (h *handlers) generateSplit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	muscle, err := req.RequireString("muscle")
	if err != nil {
		return mcp.NewToolResultError("muscle parameter is required"), nil
	}
	freq, err := req.RequireInt("weekly_frequency")
	if err != nil {
		return mcp.NewToolResultError("weekly_frequency parameter is required"), nil
	}

	plan, err := h.ds.PreviewPlan(ctx, UserIDFromContext(ctx), coach.PlanOptions{
		Muscle:          muscle,
		WeeklyFrequency: freq,
		Aggressiveness:  req.GetString("aggressiveness", ""),
		TargetFrequency: req.GetInt("target_frequency", 0),
	})
	if err != nil {
		if errors.Is(err, coach.ErrInvalid) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.log.Error("mcp generate_split", "error", err)
		return mcp.NewToolResultError("split generation failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getActiveSplit(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := h.ds.ActivePlan(ctx, UserIDFromContext(ctx))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return mcp.NewToolResultText("No active split plan."), nil
	case errors.Is(err, coach.ErrUnavailable):
		return mcp.NewToolResultError("split plans are not available in offline mode"), nil
	case err != nil:
		h.log.Error("mcp get_active_split", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plan)
}

func (h *handlers) getVolumeReport(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.ds.VolumeReport(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_volume_report", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(report)
}

func (h *handlers) assessDeload(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := h.ds.Deload(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp assess_deload", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(report)
}

func (h *handlers) getFrequencyRange(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("muscle")
	if err != nil {
		return mcp.NewToolResultError("muscle parameter is required"), nil
	}
	muscle, err := models.ParseMuscleGroup(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{
		"muscle":    muscle,
		"size":      models.SizeOf(muscle),
		"frequency": split.RecommendedFrequency(muscle),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
