package analysis

import "math"

// rpeChart maps (rounded RPE, rep bucket) to the fraction of true 1RM that
// lift represents. Derived from the standard RPE/percentage chart used by
// autoregulated strength programs. Higher RPE and fewer reps mean the lift
// was closer to the true max.
var rpeChart = map[int]map[int]float64{
	10: {1: 1.000, 2: 0.955, 3: 0.922, 5: 0.863, 8: 0.786, 10: 0.739},
	9:  {1: 0.955, 2: 0.922, 3: 0.892, 5: 0.837, 8: 0.762, 10: 0.715},
	8:  {1: 0.922, 2: 0.892, 3: 0.863, 5: 0.811, 8: 0.739, 10: 0.694},
	7:  {1: 0.892, 2: 0.863, 3: 0.837, 5: 0.786, 8: 0.715, 10: 0.674},
	6:  {1: 0.863, 2: 0.837, 3: 0.811, 5: 0.762, 8: 0.694, 10: 0.653},
}

// defaultFraction is used when a (RPE, bucket) pair is missing from the chart.
const defaultFraction = 0.75

// EstimateOneRM estimates the one-rep max implied by lifting weightKg for the
// given representative rep count at the given RPE. RPE is clamped to [6, 10]
// and rounded for the chart lookup; reps are bucketed to the nearest
// not-exceeding chart column. Total function: never fails.
func EstimateOneRM(weightKg, rpe, reps float64) float64 {
	r := int(math.Round(clamp(rpe, 6, 10)))

	fraction := defaultFraction
	if row, ok := rpeChart[r]; ok {
		if f, ok := row[repBucket(reps)]; ok {
			fraction = f
		}
	}

	return weightKg / fraction
}

// repBucket snaps a representative rep count to the chart columns
// {1, 2, 3, 5, 8, 10}, choosing the nearest value that does not exceed
// the next column up.
func repBucket(reps float64) int {
	switch {
	case reps <= 1:
		return 1
	case reps <= 2:
		return 2
	case reps <= 3:
		return 3
	case reps <= 5:
		return 5
	case reps <= 8:
		return 8
	default:
		return 10
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
