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

// ErrNoRows signals that a single-row lookup matched nothing. Callers that
// treat absence as a normal condition (latest progression record, weekly
// bucket, feedback) check for it with errors.Is.
var ErrNoRows = errors.New("storage: no rows")

// InsertSession creates a workout session. The ID may be zero, in which case
// one is generated.
func (db *DB) InsertSession(ctx context.Context, s models.WorkoutSession) (models.WorkoutSession, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO workout_sessions (id, user_id, session_date, completed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, s.ID, s.UserID, s.SessionDate, s.Completed).Scan(&s.CreatedAt)
	if err != nil {
		return s, fmt.Errorf("inserting session: %w", err)
	}
	return s, nil
}

// GetSession fetches one session by id. Returns ErrNoRows if absent.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error) {
	var s models.WorkoutSession
	err := db.Pool.QueryRow(ctx, `
		SELECT id, user_id, session_date, completed, created_at
		FROM workout_sessions WHERE id = $1
	`, id).Scan(&s.ID, &s.UserID, &s.SessionDate, &s.Completed, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &s, nil
}

// MarkSessionCompleted flips the completion flag.
func (db *DB) MarkSessionCompleted(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sessions SET completed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking session completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// CompletedSessionsInRange lists completed sessions for a user ordered by
// session date ascending. Used by the backfill tool.
func (db *DB) CompletedSessionsInRange(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, session_date, completed, created_at
		FROM workout_sessions
		WHERE user_id = $1 AND completed AND session_date >= $2 AND session_date < $3
		ORDER BY session_date ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying completed sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSession
	for rows.Next() {
		var s models.WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionDate, &s.Completed, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
