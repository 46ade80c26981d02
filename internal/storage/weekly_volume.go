package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccumulateWeeklyVolume adds a session's contribution-weighted volume and
// completed sets into the (user, muscle group, week) bucket, creating the row
// on first contribution. The single-statement upsert makes concurrent
// sessions writing the same bucket add up instead of losing updates: Postgres
// serializes the DO UPDATE on the conflicting row.
func (db *DB) AccumulateWeeklyVolume(ctx context.Context, userID, muscleGroupID int, weekStart time.Time, volumeKg float64, sets int) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO weekly_volume_records (id, user_id, muscle_group_id, week_start, total_volume_kg, total_sets)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, muscle_group_id, week_start) DO UPDATE SET
			total_volume_kg = weekly_volume_records.total_volume_kg + EXCLUDED.total_volume_kg,
			total_sets      = weekly_volume_records.total_sets + EXCLUDED.total_sets
	`, uuid.New(), userID, muscleGroupID, weekStart, volumeKg, sets)
	if err != nil {
		return fmt.Errorf("accumulating weekly volume: %w", err)
	}
	return nil
}

// GetWeeklyVolume fetches the bucket for one (user, muscle group, week-start)
// key. Returns ErrNoRows when the week has no contributions yet.
func (db *DB) GetWeeklyVolume(ctx context.Context, userID, muscleGroupID int, weekStart time.Time) (*models.WeeklyVolumeRecord, error) {
	var r models.WeeklyVolumeRecord
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, muscle_group_id, week_start, total_volume_kg, total_sets, avg_intensity
		FROM weekly_volume_records
		WHERE user_id = $1 AND muscle_group_id = $2 AND week_start = $3
	`, userID, muscleGroupID, weekStart).Scan(&r.ID, &r.UserID, &r.MuscleGroupID,
		&r.WeekStart, &r.TotalVolumeKg, &r.TotalSets, &r.AvgIntensity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("querying weekly volume: %w", err)
	}
	return &r, nil
}

// ListWeeklyVolume returns a user's weekly volume records from start onward,
// most recent week first, then by muscle group.
func (db *DB) ListWeeklyVolume(ctx context.Context, userID int, start time.Time) ([]models.WeeklyVolumeRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, muscle_group_id, week_start, total_volume_kg, total_sets, avg_intensity
		FROM weekly_volume_records
		WHERE user_id = $1 AND week_start >= $2
		ORDER BY week_start DESC, muscle_group_id ASC
	`, userID, start)
	if err != nil {
		return nil, fmt.Errorf("querying weekly volume records: %w", err)
	}
	defer rows.Close()

	var result []models.WeeklyVolumeRecord
	for rows.Next() {
		var r models.WeeklyVolumeRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.MuscleGroupID, &r.WeekStart,
			&r.TotalVolumeKg, &r.TotalSets, &r.AvgIntensity); err != nil {
			return nil, fmt.Errorf("scanning weekly volume record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
