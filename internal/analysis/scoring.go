package analysis

import (
	"math"

	"github.com/claude/volumetric/internal/models"
)

// Progression comparison thresholds. Volume must move more than 5% (or weight
// more than 2.5%) before a session counts as improvement; a drop of more than
// 5% volume counts as decline. Everything in between is maintenance.
const (
	volumeImproveFactor = 1.05
	weightImproveFactor = 1.025
	volumeDeclineFactor = 0.95
)

// Classify compares a performance's volume and weight against the most recent
// prior record for the same (user, exercise). A nil prior means this is the
// first record ever: baseline.
func Classify(volumeKg, weightKg float64, prior *models.LoadProgressionRecord) models.Classification {
	if prior == nil {
		return models.ClassBaseline
	}
	if volumeKg > prior.VolumeKg*volumeImproveFactor {
		return models.ClassImproved
	}
	if weightKg > prior.WeightKg*weightImproveFactor {
		return models.ClassImproved
	}
	if volumeKg < prior.VolumeKg*volumeDeclineFactor {
		return models.ClassDeclined
	}
	return models.ClassMaintained
}

// RecoveryLevel scores how recovered the user is on a 1-10 integer scale.
// Sleep and energy contribute positively; soreness is inverted (high soreness
// means poor recovery). Out-of-range questionnaire values are clamped.
func RecoveryLevel(fb models.RecoveryFeedback) int {
	score := float64(fb.SleepQuality)*0.3 +
		float64(fb.EnergyLevel)*0.3 +
		float64(11-fb.MuscleSoreness)*0.4
	return int(math.Round(clamp(score, 1, 10)))
}

// AdaptationLevel scores how well the user is adapting to the current volume
// on a 1-10 integer scale. Pump quality dominates; perceived effort is
// inverted (grinding sessions suggest poor adaptation).
func AdaptationLevel(fb models.RecoveryFeedback) int {
	score := float64(fb.PumpQuality)*0.5 +
		float64(11-fb.PerceivedEffort)*0.3 +
		float64(fb.EnergyLevel)*0.2
	return int(math.Round(clamp(score, 1, 10)))
}
