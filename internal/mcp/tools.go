package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetLoadProgression = mcp.NewTool("get_load_progression",
	mcp.WithDescription("Query per-session load progression records for an exercise: rep sequence, tonnage, estimated 1RM, and the improved/maintained/declined classification against the previous session."),
	mcp.WithNumber("exercise_id", mcp.Description("Filter by exercise ID. Omit for all exercises.")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of records. Defaults to 50.")),
)

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Query weekly training volume per muscle group: contribution-weighted tonnage and set counts, bucketed by Monday-start calendar weeks."),
	mcp.WithNumber("weeks", mcp.Description("How many weeks back to include. Defaults to 12.")),
)

var toolGetVolumeLandmarks = mcp.NewTool("get_volume_landmarks",
	mcp.WithDescription("Query volume landmark state per muscle group: MV/MEV/MAV/MRV set-count bounds, current and target weekly sets, and the latest recovery and adaptation scores."),
)

var toolGetMuscleGroups = mcp.NewTool("get_muscle_groups",
	mcp.WithDescription("List all muscle groups with category, body region, and training priority."),
)

// --- Tool handlers ---

func (h *handlers) getLoadProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID := req.GetInt("exercise_id", 0)
	limit := req.GetInt("limit", 50)
	uid := UserIDFromContext(ctx)

	records, err := h.ds.ListProgression(ctx, uid, exerciseID, limit)
	if err != nil {
		h.log.Error("mcp get_load_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeeklyVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", 12)
	if weeks <= 0 {
		return mcp.NewToolResultError("weeks must be positive"), nil
	}
	uid := UserIDFromContext(ctx)
	since := time.Now().AddDate(0, 0, -7*weeks)

	records, err := h.ds.ListWeeklyVolume(ctx, uid, since)
	if err != nil {
		h.log.Error("mcp get_weekly_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeLandmarks(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	landmarks, err := h.ds.LandmarksByUser(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_volume_landmarks", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(landmarks)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMuscleGroups(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := h.ds.ListMuscleGroups(ctx)
	if err != nil {
		h.log.Error("mcp get_muscle_groups", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(groups)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
