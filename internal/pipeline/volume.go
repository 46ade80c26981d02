package pipeline

import (
	"context"

	"github.com/claude/volumetric/internal/analysis"
	"github.com/claude/volumetric/internal/models"
)

// weeklyContribution accumulates one muscle group's share of a session.
type weeklyContribution struct {
	volumeKg float64
	sets     int
}

// aggregateWeeklyVolume joins the session's completed performances against
// their muscle-group mappings and folds the contribution-weighted volume and
// completed set counts into the session's calendar-week buckets. Returns the
// number of muscle groups touched.
func (p *Pipeline) aggregateWeeklyVolume(ctx context.Context, sess *models.WorkoutSession, perfs []models.ExercisePerformance) (int, error) {
	contrib := make(map[int]*weeklyContribution)

	for _, perf := range perfs {
		if perf.ActualReps == "" || perf.WeightKg <= 0 {
			continue
		}
		reps := analysis.ParseRepString(perf.ActualReps)
		rawVolume := perf.WeightKg * float64(analysis.SumReps(reps))
		sets := len(reps)

		mappings, err := p.store.MappingsByExercise(ctx, perf.ExerciseID)
		if err != nil {
			return 0, storeErr("mappings by exercise", err)
		}
		for _, m := range mappings {
			c := contrib[m.MuscleGroupID]
			if c == nil {
				c = &weeklyContribution{}
				contrib[m.MuscleGroupID] = c
			}
			c.volumeKg += rawVolume * m.Contribution
			c.sets += sets
		}
	}

	if len(contrib) == 0 {
		return 0, nil
	}

	weekStart := analysis.WeekStart(sess.SessionDate, p.loc)
	for mgID, c := range contrib {
		if err := p.store.AccumulateWeeklyVolume(ctx, sess.UserID, mgID, weekStart, c.volumeKg, c.sets); err != nil {
			return 0, storeErr("accumulate weekly volume", err)
		}
	}
	return len(contrib), nil
}
