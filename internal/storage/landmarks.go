package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/google/uuid"
)

// LandmarksByUser returns all of a user's volume landmarks ordered by muscle
// group.
func (db *DB) LandmarksByUser(ctx context.Context, userID int) ([]models.VolumeLandmark, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, muscle_group_id, mv, mev, mav, mrv,
		       current_volume, target_volume, recovery_level, adaptation_level, updated_at
		FROM volume_landmarks
		WHERE user_id = $1
		ORDER BY muscle_group_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying landmarks: %w", err)
	}
	defer rows.Close()

	var result []models.VolumeLandmark
	for rows.Next() {
		var l models.VolumeLandmark
		if err := rows.Scan(&l.ID, &l.UserID, &l.MuscleGroupID, &l.MV, &l.MEV,
			&l.MAV, &l.MRV, &l.CurrentVolume, &l.TargetVolume,
			&l.RecoveryLevel, &l.AdaptationLevel, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning landmark: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// UpdateLandmarkState writes the mutable fields of one landmark: current
// volume, the two scores and the refresh timestamp. The MV/MEV/MAV/MRV
// bounds are owned by whoever provisioned the landmark and are never touched
// here.
func (db *DB) UpdateLandmarkState(ctx context.Context, id uuid.UUID, currentVolume float64, recoveryLevel, adaptationLevel int, updatedAt time.Time) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE volume_landmarks
		SET current_volume = $2, recovery_level = $3, adaptation_level = $4, updated_at = $5
		WHERE id = $1
	`, id, currentVolume, recoveryLevel, adaptationLevel, updatedAt)
	if err != nil {
		return fmt.Errorf("updating landmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
