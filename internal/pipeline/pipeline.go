package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/volumetric/internal/storage"
	"github.com/google/uuid"
)

// Pipeline turns a completed workout session into its derived analytics:
// load-progression records, weekly volume buckets and refreshed volume
// landmarks. One invocation per session; the caller guarantees at-most-once
// delivery (the progression tracker appends blindly and performs no
// deduplication).
type Pipeline struct {
	store Store
	loc   *time.Location
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Pipeline. loc is the time zone calendar weeks are bucketed
// in; sessions logged near midnight on a Sunday land in different weeks
// depending on it, so it is configuration, not an implementation detail.
func New(store Store, loc *time.Location, log *slog.Logger) *Pipeline {
	return &Pipeline{store: store, loc: loc, log: log, now: time.Now}
}

// Result summarizes one pipeline run.
type Result struct {
	SessionID           uuid.UUID `json:"session_id"`
	PerformancesTracked int       `json:"performances_tracked"`
	MuscleGroupsTouched int       `json:"muscle_groups_touched"`
	LandmarksUpdated    int       `json:"landmarks_updated"`
	FeedbackPresent     bool      `json:"feedback_present"`
}

// ProcessSessionCompletion runs the full analytics pipeline for one session:
// progression tracking per completed performance, weekly volume aggregation,
// then the landmark update (skipped when no recovery feedback exists).
// Returns ErrNotFound if the session does not exist or belongs to another
// user, and StoreError on any storage failure. Partial completion before a
// failure is acceptable; the caller may re-invoke.
func (p *Pipeline) ProcessSessionCompletion(ctx context.Context, sessionID uuid.UUID, userID int) (*Result, error) {
	sess, err := p.store.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get session", err)
	}
	if sess.UserID != userID {
		return nil, fmt.Errorf("session %s for user %d: %w", sessionID, userID, ErrNotFound)
	}

	perfs, err := p.store.CompletedPerformancesBySession(ctx, sessionID)
	if err != nil {
		return nil, storeErr("list performances", err)
	}

	result := &Result{SessionID: sessionID}

	for _, perf := range perfs {
		if perf.ActualReps == "" || perf.WeightKg <= 0 {
			continue
		}
		if _, err := p.trackProgression(ctx, sess, perf); err != nil {
			return result, err
		}
		result.PerformancesTracked++
	}

	touched, err := p.aggregateWeeklyVolume(ctx, sess, perfs)
	if err != nil {
		return result, err
	}
	result.MuscleGroupsTouched = touched

	updated, present, err := p.updateLandmarks(ctx, sess)
	if err != nil {
		return result, err
	}
	result.LandmarksUpdated = updated
	result.FeedbackPresent = present

	p.log.Info("session processed",
		"session_id", sessionID,
		"user_id", userID,
		"performances", result.PerformancesTracked,
		"muscle_groups", result.MuscleGroupsTouched,
		"landmarks", result.LandmarksUpdated,
	)
	return result, nil
}
