package pipeline

import (
	"context"
	"errors"

	"github.com/claude/volumetric/internal/analysis"
	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/storage"
)

// updateLandmarks refreshes each of the user's volume landmarks from the
// current week's aggregate and the session's recovery feedback. Landmarks
// only refresh when the user submitted feedback for this session — a
// documented business rule, not a missing case. Returns the number of
// landmarks written and whether feedback was present.
func (p *Pipeline) updateLandmarks(ctx context.Context, sess *models.WorkoutSession) (int, bool, error) {
	fb, err := p.store.FeedbackBySession(ctx, sess.ID)
	if errors.Is(err, storage.ErrNoRows) {
		p.log.Debug("no recovery feedback; landmarks unchanged", "session_id", sess.ID)
		return 0, false, nil
	}
	if err != nil {
		return 0, false, storeErr("feedback by session", err)
	}

	landmarks, err := p.store.LandmarksByUser(ctx, sess.UserID)
	if err != nil {
		return 0, true, storeErr("landmarks by user", err)
	}

	weekStart := analysis.WeekStart(sess.SessionDate, p.loc)
	recovery := analysis.RecoveryLevel(*fb)
	adaptation := analysis.AdaptationLevel(*fb)

	updated := 0
	for _, l := range landmarks {
		current := l.CurrentVolume
		week, err := p.store.GetWeeklyVolume(ctx, sess.UserID, l.MuscleGroupID, weekStart)
		if err != nil && !errors.Is(err, storage.ErrNoRows) {
			return updated, true, storeErr("weekly volume for landmark", err)
		}
		if week != nil {
			// Landmarks track current volume in weekly sets.
			current = float64(week.TotalSets)
		}

		if err := p.store.UpdateLandmarkState(ctx, l.ID, current, recovery, adaptation, p.now()); err != nil {
			return updated, true, storeErr("update landmark", err)
		}
		updated++
	}
	return updated, true, nil
}
