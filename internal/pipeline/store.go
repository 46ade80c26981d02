package pipeline

import (
	"context"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/storage"
	"github.com/google/uuid"
)

// Store is the storage collaborator contract the pipeline runs against.
// *storage.DB satisfies it; tests use an in-memory fake. Single-row lookups
// report absence with storage.ErrNoRows.
type Store interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error)
	CompletedPerformancesBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ExercisePerformance, error)
	MappingsByExercise(ctx context.Context, exerciseID int) ([]models.ExerciseMuscleMapping, error)

	LatestProgressionRecord(ctx context.Context, userID, exerciseID int) (*models.LoadProgressionRecord, error)
	InsertProgressionRecord(ctx context.Context, r models.LoadProgressionRecord) (models.LoadProgressionRecord, error)

	AccumulateWeeklyVolume(ctx context.Context, userID, muscleGroupID int, weekStart time.Time, volumeKg float64, sets int) error
	GetWeeklyVolume(ctx context.Context, userID, muscleGroupID int, weekStart time.Time) (*models.WeeklyVolumeRecord, error)

	LandmarksByUser(ctx context.Context, userID int) ([]models.VolumeLandmark, error)
	UpdateLandmarkState(ctx context.Context, id uuid.UUID, currentVolume float64, recoveryLevel, adaptationLevel int, updatedAt time.Time) error

	FeedbackBySession(ctx context.Context, sessionID uuid.UUID) (*models.RecoveryFeedback, error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)
