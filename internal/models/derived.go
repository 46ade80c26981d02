package models

import (
	"time"

	"github.com/google/uuid"
)

// Classification compares one performance against the most recent prior
// record for the same (user, exercise).
type Classification string

const (
	ClassBaseline   Classification = "baseline"
	ClassImproved   Classification = "improved"
	ClassMaintained Classification = "maintained"
	ClassDeclined   Classification = "declined"
)

// LoadProgressionRecord is the append-only per-exercise history row. One row
// per completed performance with reps and weight; never mutated afterward.
// Estimated1RM is nil when the performance carried no RPE.
type LoadProgressionRecord struct {
	ID             uuid.UUID      `json:"id"`
	UserID         int            `json:"user_id"`
	ExerciseID     int            `json:"exercise_id"`
	SessionID      uuid.UUID      `json:"session_id"`
	SessionDate    time.Time      `json:"session_date"`
	WeightKg       float64        `json:"weight_kg"`
	Reps           []int32        `json:"reps"`
	VolumeKg       float64        `json:"volume_kg"`
	Estimated1RM   *float64       `json:"estimated_1rm,omitempty"`
	RPE            *float64       `json:"rpe,omitempty"`
	RIR            *float64       `json:"rir,omitempty"`
	Classification Classification `json:"classification"`
}

// WeeklyVolumeRecord accumulates contribution-weighted volume and completed
// sets per (user, muscle group, calendar week). WeekStart is always the
// Monday 00:00:00 preceding or equal to the session date in the configured
// bucketing zone. AvgIntensity is reserved and not computed by the pipeline.
type WeeklyVolumeRecord struct {
	ID            uuid.UUID `json:"id"`
	UserID        int       `json:"user_id"`
	MuscleGroupID int       `json:"muscle_group_id"`
	WeekStart     time.Time `json:"week_start"`
	TotalVolumeKg float64   `json:"total_volume_kg"`
	TotalSets     int       `json:"total_sets"`
	AvgIntensity  *float64  `json:"avg_intensity,omitempty"`
}

// VolumeLandmark is the long-lived per-(user, muscle group) capacity model.
// The four bounds (MV/MEV/MAV/MRV, in weekly sets) are set externally; the
// pipeline only writes CurrentVolume, RecoveryLevel, AdaptationLevel and
// UpdatedAt.
type VolumeLandmark struct {
	ID              uuid.UUID `json:"id"`
	UserID          int       `json:"user_id"`
	MuscleGroupID   int       `json:"muscle_group_id"`
	MV              float64   `json:"mv"`
	MEV             float64   `json:"mev"`
	MAV             float64   `json:"mav"`
	MRV             float64   `json:"mrv"`
	CurrentVolume   float64   `json:"current_volume"`
	TargetVolume    float64   `json:"target_volume"`
	RecoveryLevel   int       `json:"recovery_level"`
	AdaptationLevel int       `json:"adaptation_level"`
	UpdatedAt       time.Time `json:"updated_at"`
}
