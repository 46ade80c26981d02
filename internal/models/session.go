package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutSession is one training occasion for one user.
type WorkoutSession struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	SessionDate time.Time `json:"session_date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExercisePerformance is a single logged exercise within a session.
// ActualReps is the compact rep-notation string ("8,10,12", "8-12" or "10").
type ExercisePerformance struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	ExerciseID int       `json:"exercise_id"`
	SetsCount  int       `json:"sets_count"`
	ActualReps string    `json:"actual_reps"`
	WeightKg   float64   `json:"weight_kg"`
	RPE        *float64  `json:"rpe,omitempty"`
	RIR        *float64  `json:"rir,omitempty"`
	Completed  bool      `json:"completed"`
}

// RecoveryFeedback is the subjective post-session questionnaire, all fields
// on a 1-10 scale. At most one row per session.
type RecoveryFeedback struct {
	SessionID       uuid.UUID `json:"session_id"`
	UserID          int       `json:"user_id"`
	PumpQuality     int       `json:"pump_quality"`
	MuscleSoreness  int       `json:"muscle_soreness"`
	PerceivedEffort int       `json:"perceived_effort"`
	EnergyLevel     int       `json:"energy_level"`
	SleepQuality    int       `json:"sleep_quality"`
	CreatedAt       time.Time `json:"created_at"`
}
