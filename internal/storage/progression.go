package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/volumetric/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertProgressionRecord appends one immutable load-progression row.
func (db *DB) InsertProgressionRecord(ctx context.Context, r models.LoadProgressionRecord) (models.LoadProgressionRecord, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO load_progression_records
			(id, user_id, exercise_id, session_id, session_date, weight_kg,
			 reps, volume_kg, estimated_1rm, rpe, rir, classification)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.ID, r.UserID, r.ExerciseID, r.SessionID, r.SessionDate, r.WeightKg,
		r.Reps, r.VolumeKg, r.Estimated1RM, r.RPE, r.RIR, r.Classification)
	if err != nil {
		return r, fmt.Errorf("inserting progression record: %w", err)
	}
	return r, nil
}

// LatestProgressionRecord returns the single most recent prior record for a
// (user, exercise) pair ordered by session date, or ErrNoRows if the user has
// never logged that exercise. The progression tracker classifies against this
// one row only.
func (db *DB) LatestProgressionRecord(ctx context.Context, userID, exerciseID int) (*models.LoadProgressionRecord, error) {
	var r models.LoadProgressionRecord
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, exercise_id, session_id, session_date, weight_kg,
		       reps, volume_kg, estimated_1rm, rpe, rir, classification
		FROM load_progression_records
		WHERE user_id = $1 AND exercise_id = $2
		ORDER BY session_date DESC
		LIMIT 1
	`, userID, exerciseID).Scan(&r.ID, &r.UserID, &r.ExerciseID, &r.SessionID,
		&r.SessionDate, &r.WeightKg, &r.Reps, &r.VolumeKg, &r.Estimated1RM,
		&r.RPE, &r.RIR, &r.Classification)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest progression record: %w", err)
	}
	return &r, nil
}

// ListProgression returns a user's progression history, newest first,
// optionally filtered to one exercise. limit <= 0 means no limit.
func (db *DB) ListProgression(ctx context.Context, userID int, exerciseID, limit int) ([]models.LoadProgressionRecord, error) {
	query := `
		SELECT id, user_id, exercise_id, session_id, session_date, weight_kg,
		       reps, volume_kg, estimated_1rm, rpe, rir, classification
		FROM load_progression_records
		WHERE user_id = $1 AND ($2 = 0 OR exercise_id = $2)
		ORDER BY session_date DESC`
	args := []any{userID, exerciseID}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying progression history: %w", err)
	}
	defer rows.Close()

	var result []models.LoadProgressionRecord
	for rows.Next() {
		var r models.LoadProgressionRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.ExerciseID, &r.SessionID,
			&r.SessionDate, &r.WeightKg, &r.Reps, &r.VolumeKg, &r.Estimated1RM,
			&r.RPE, &r.RIR, &r.Classification); err != nil {
			return nil, fmt.Errorf("scanning progression record: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
