package mcp

import (
	"context"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/storage"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	ListProgression(ctx context.Context, userID, exerciseID, limit int) ([]models.LoadProgressionRecord, error)
	ListWeeklyVolume(ctx context.Context, userID int, since time.Time) ([]models.WeeklyVolumeRecord, error)
	LandmarksByUser(ctx context.Context, userID int) ([]models.VolumeLandmark, error)
	ListMuscleGroups(ctx context.Context) ([]models.MuscleGroup, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
