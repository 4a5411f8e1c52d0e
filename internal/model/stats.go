package model

// CalculateStats derives a RunStats summary from raw per-test results.
//
// Malformed or missing fields never fail the computation: absent scores are
// excluded from the average, absent cost/latency contribute 0, and an empty
// result set yields all-zero stats. Negative costs (credits) are summed
// as-is, not clamped.
func CalculateStats(results []TestResult) RunStats {
	stats := RunStats{TotalTests: len(results)}

	scoreSum := 0.0
	scored := 0
	for _, r := range results {
		if r.Passed() {
			stats.Passed++
		} else {
			stats.Failed++
		}
		if score, ok := r.ScoreValue(); ok {
			scoreSum += score
			scored++
		}
		if r.Cost != nil {
			stats.TotalCost += *r.Cost
		}
		if r.LatencyMs != nil {
			stats.TotalLatency += *r.LatencyMs
		}
	}

	if scored > 0 {
		stats.AvgScore = scoreSum / float64(scored)
	}
	return stats
}
