package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/volumetric/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertFeedback stores the post-session recovery questionnaire. At most one
// row per session; a duplicate submission replaces the earlier answers.
func (db *DB) InsertFeedback(ctx context.Context, fb models.RecoveryFeedback) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO recovery_feedback
			(session_id, user_id, pump_quality, muscle_soreness, perceived_effort, energy_level, sleep_quality)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET
			pump_quality = EXCLUDED.pump_quality,
			muscle_soreness = EXCLUDED.muscle_soreness,
			perceived_effort = EXCLUDED.perceived_effort,
			energy_level = EXCLUDED.energy_level,
			sleep_quality = EXCLUDED.sleep_quality
	`, fb.SessionID, fb.UserID, fb.PumpQuality, fb.MuscleSoreness,
		fb.PerceivedEffort, fb.EnergyLevel, fb.SleepQuality)
	if err != nil {
		return fmt.Errorf("inserting feedback: %w", err)
	}
	return nil
}

// FeedbackBySession fetches the questionnaire for one session. Returns
// ErrNoRows when the user never submitted one — the landmark updater treats
// that as "skip this session".
func (db *DB) FeedbackBySession(ctx context.Context, sessionID uuid.UUID) (*models.RecoveryFeedback, error) {
	var fb models.RecoveryFeedback
	err := db.Pool.QueryRow(ctx, `
		SELECT session_id, user_id, pump_quality, muscle_soreness, perceived_effort, energy_level, sleep_quality, created_at
		FROM recovery_feedback WHERE session_id = $1
	`, sessionID).Scan(&fb.SessionID, &fb.UserID, &fb.PumpQuality,
		&fb.MuscleSoreness, &fb.PerceivedEffort, &fb.EnergyLevel,
		&fb.SleepQuality, &fb.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	return &fb, nil
}
