package evm

import "math"

// AggregateProgress reduces deliverable percentages into the project-level
// completion figure. With deliverables present the result is their
// unweighted mean rounded to a whole percent; the rounded value is what gets
// stored back onto the project, so the UI and the calculator see the same
// number. Without deliverables the stored percentage is authoritative.
func AggregateProgress(deliverablePcts []int, storedPct int) (pct int, fraction float64) {
	if len(deliverablePcts) == 0 {
		pct = clampPct(storedPct)
		return pct, float64(pct) / 100
	}

	sum := 0
	for _, p := range deliverablePcts {
		sum += clampPct(p)
	}
	pct = int(math.Round(float64(sum) / float64(len(deliverablePcts))))
	return pct, float64(pct) / 100
}

func clampPct(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
