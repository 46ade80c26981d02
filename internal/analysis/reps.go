package analysis

import (
	"math"
	"strconv"
	"strings"
)

// ParseRepString converts a compact rep-notation string into a per-set rep
// sequence. Three forms are accepted:
//
//	"8,10,12"  comma list — one element per set, non-numeric tokens dropped
//	"8-12"     range — collapsed to the rounded midpoint as a single set
//	"10"       bare integer — a single set
//
// Malformed input degrades to the most permissive interpretation instead of
// failing; the result is never empty (worst case: [0]). Training logs are
// messy and a bad rep string must not block the pipeline.
func ParseRepString(s string) []int {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ",") {
		var reps []int
		for _, tok := range strings.Split(s, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				continue
			}
			reps = append(reps, n)
		}
		if len(reps) > 0 {
			return reps
		}
		return []int{0}
	}

	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		lo, errLo := strconv.Atoi(strings.TrimSpace(parts[0]))
		hi, errHi := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errLo == nil && errHi == nil {
			mid := int(math.Round(float64(lo+hi) / 2))
			return []int{mid}
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return []int{0}
	}
	return []int{n}
}

// SumReps returns the total repetitions across a parsed sequence.
func SumReps(reps []int) int {
	total := 0
	for _, r := range reps {
		total += r
	}
	return total
}
