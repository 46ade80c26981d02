package storage

import (
	"context"
	"fmt"

	"github.com/claude/volumetric/internal/models"
	"github.com/google/uuid"
)

// InsertPerformance logs one exercise performance within a session.
func (db *DB) InsertPerformance(ctx context.Context, p models.ExercisePerformance) (models.ExercisePerformance, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO exercise_performances
			(id, session_id, exercise_id, sets_count, actual_reps, weight_kg, rpe, rir, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.SessionID, p.ExerciseID, p.SetsCount, p.ActualReps, p.WeightKg, p.RPE, p.RIR, p.Completed)
	if err != nil {
		return p, fmt.Errorf("inserting performance: %w", err)
	}
	return p, nil
}

// CompletedPerformancesBySession lists a session's completed performances in
// log order.
func (db *DB) CompletedPerformancesBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ExercisePerformance, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, session_id, exercise_id, sets_count, actual_reps, weight_kg, rpe, rir, completed
		FROM exercise_performances
		WHERE session_id = $1 AND completed
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying performances: %w", err)
	}
	defer rows.Close()

	var result []models.ExercisePerformance
	for rows.Next() {
		var p models.ExercisePerformance
		if err := rows.Scan(&p.ID, &p.SessionID, &p.ExerciseID, &p.SetsCount,
			&p.ActualReps, &p.WeightKg, &p.RPE, &p.RIR, &p.Completed); err != nil {
			return nil, fmt.Errorf("scanning performance: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
