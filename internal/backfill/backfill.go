package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/pipeline"
	"github.com/google/uuid"
)

// SessionSource lists the completed sessions eligible for reprocessing.
type SessionSource interface {
	CompletedSessionsInRange(ctx context.Context, userID int, start, end time.Time) ([]models.WorkoutSession, error)
}

// Processor runs the analytics pipeline for one session.
type Processor interface {
	ProcessSessionCompletion(ctx context.Context, sessionID uuid.UUID, userID int) (*pipeline.Result, error)
}

// Ledger remembers which sessions have already been processed.
type Ledger interface {
	IsProcessed(sessionID uuid.UUID) (bool, error)
	MarkProcessed(sessionID uuid.UUID, userID int) error
}

// Stats summarizes a backfill run.
type Stats struct {
	SessionsTotal     int
	SessionsProcessed int
	SessionsSkipped   int
	SessionsErrored   int
}

// Runner replays completed sessions through the analytics pipeline. The
// ledger guarantees at-most-once processing per session across runs.
type Runner struct {
	source SessionSource
	proc   Processor
	ledger Ledger
	dryRun bool
	log    *slog.Logger
}

// New creates a backfill runner.
func New(source SessionSource, proc Processor, ledger Ledger, dryRun bool, log *slog.Logger) *Runner {
	return &Runner{source: source, proc: proc, ledger: ledger, dryRun: dryRun, log: log}
}

// Run processes every completed session for the user in [start, end) that the
// ledger has not seen yet. Errors on individual sessions are counted and
// logged but do not abort the run.
func (r *Runner) Run(ctx context.Context, userID int, start, end time.Time) (*Stats, error) {
	stats := &Stats{}

	sessions, err := r.source.CompletedSessionsInRange(ctx, userID, start, end)
	if err != nil {
		return stats, fmt.Errorf("listing completed sessions: %w", err)
	}
	stats.SessionsTotal = len(sessions)

	for _, sess := range sessions {
		done, err := r.ledger.IsProcessed(sess.ID)
		if err != nil {
			return stats, fmt.Errorf("checking ledger for %s: %w", sess.ID, err)
		}
		if done {
			stats.SessionsSkipped++
			continue
		}

		if r.dryRun {
			r.log.Info("would process session", "session_id", sess.ID, "date", sess.SessionDate)
			stats.SessionsProcessed++
			continue
		}

		result, err := r.proc.ProcessSessionCompletion(ctx, sess.ID, userID)
		if err != nil {
			r.log.Error("processing session", "session_id", sess.ID, "error", err)
			stats.SessionsErrored++
			continue
		}

		if err := r.ledger.MarkProcessed(sess.ID, userID); err != nil {
			return stats, fmt.Errorf("recording session %s in ledger: %w", sess.ID, err)
		}

		r.log.Info("processed session",
			"session_id", sess.ID,
			"date", sess.SessionDate,
			"performances", result.PerformancesTracked,
			"muscle_groups", result.MuscleGroupsTouched,
		)
		stats.SessionsProcessed++
	}

	return stats, nil
}
