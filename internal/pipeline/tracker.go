package pipeline

import (
	"context"
	"errors"

	"github.com/claude/volumetric/internal/analysis"
	"github.com/claude/volumetric/internal/models"
	"github.com/claude/volumetric/internal/storage"
)

// trackProgression computes volume and (when RPE was logged) estimated 1RM
// for one completed performance, classifies it against the most recent prior
// record for the same (user, exercise), and appends an immutable history row.
func (p *Pipeline) trackProgression(ctx context.Context, sess *models.WorkoutSession, perf models.ExercisePerformance) (models.LoadProgressionRecord, error) {
	reps := analysis.ParseRepString(perf.ActualReps)
	totalReps := analysis.SumReps(reps)
	volume := perf.WeightKg * float64(totalReps)

	var est1RM *float64
	if perf.RPE != nil {
		// Representative reps: total across the performance divided by the
		// prescribed set count. A missing set count falls back to the number
		// of sets actually parsed.
		sets := perf.SetsCount
		if sets <= 0 {
			sets = len(reps)
		}
		est := analysis.EstimateOneRM(perf.WeightKg, *perf.RPE, float64(totalReps)/float64(sets))
		est1RM = &est
	}

	prior, err := p.store.LatestProgressionRecord(ctx, sess.UserID, perf.ExerciseID)
	if err != nil && !errors.Is(err, storage.ErrNoRows) {
		return models.LoadProgressionRecord{}, storeErr("latest progression record", err)
	}

	repSeq := make([]int32, len(reps))
	for i, r := range reps {
		repSeq[i] = int32(r)
	}

	record := models.LoadProgressionRecord{
		UserID:         sess.UserID,
		ExerciseID:     perf.ExerciseID,
		SessionID:      sess.ID,
		SessionDate:    sess.SessionDate,
		WeightKg:       perf.WeightKg,
		Reps:           repSeq,
		VolumeKg:       volume,
		Estimated1RM:   est1RM,
		RPE:            perf.RPE,
		RIR:            perf.RIR,
		Classification: analysis.Classify(volume, perf.WeightKg, prior),
	}

	record, err = p.store.InsertProgressionRecord(ctx, record)
	if err != nil {
		return record, storeErr("insert progression record", err)
	}
	return record, nil
}
