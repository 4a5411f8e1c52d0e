package compare

import (
	"math"

	"github.com/promptdeck/promptdeck/internal/model"
)

// Trend classifies how a metric moved across the ordered runs.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDegrading Trend = "degrading"
	TrendStable    Trend = "stable"
	TrendVariable  Trend = "variable"
)

// Metrics is the fixed set of tracked metric series.
type Metrics struct {
	PassRate   MetricSeries `json:"passRate"`
	AvgScore   MetricSeries `json:"avgScore"`
	TotalCost  MetricSeries `json:"totalCost"`
	AvgLatency MetricSeries `json:"avgLatency"`
	TokenUsage MetricSeries `json:"tokenUsage"`
}

// MetricSeries is one metric's value per run, in sorted-timestamp order,
// plus its trend classification.
type MetricSeries struct {
	Values []float64 `json:"values"`
	Trend  Trend     `json:"trend"`
	// IsImprovement is true iff the trend is improving for a polarized
	// metric. Token usage is neutral: rising or falling token counts are
	// not inherently good or bad, so its flag is always false.
	IsImprovement bool `json:"isImprovement"`
	// Delta is values[last] - values[first].
	Delta float64 `json:"delta"`
	// DeltaPercentage is Delta relative to values[first], in percent.
	// Defined as 0 when values[first] is 0.
	DeltaPercentage float64 `json:"deltaPercentage"`
}

// polarity states which direction of movement counts as an improvement.
type polarity int

const (
	higherIsBetter polarity = iota
	lowerIsBetter
	neutral
)

// absStabilityBand is the movement treated as noise when the baseline of a
// pairwise comparison is exactly 0 and a relative band cannot apply.
const absStabilityBand = 1e-9

func computeMetrics(runs []model.HistoryRecord, opts Options) Metrics {
	n := len(runs)
	passRate := make([]float64, n)
	avgScore := make([]float64, n)
	totalCost := make([]float64, n)
	avgLatency := make([]float64, n)
	tokenUsage := make([]float64, n)

	for i, r := range runs {
		st := r.Stats
		if st.TotalTests > 0 {
			passRate[i] = float64(st.Passed) / float64(st.TotalTests) * 100
			avgLatency[i] = st.TotalLatency / float64(st.TotalTests)
		}
		avgScore[i] = st.AvgScore
		totalCost[i] = st.TotalCost
		tokenUsage[i] = float64(r.Results.TokenTotal())
	}

	band := opts.StabilityBandPct
	return Metrics{
		PassRate:   newSeries(passRate, higherIsBetter, band),
		AvgScore:   newSeries(avgScore, higherIsBetter, band),
		TotalCost:  newSeries(totalCost, lowerIsBetter, band),
		AvgLatency: newSeries(avgLatency, lowerIsBetter, band),
		TokenUsage: newSeries(tokenUsage, neutral, band),
	}
}

func newSeries(values []float64, pol polarity, bandPct float64) MetricSeries {
	first := values[0]
	last := values[len(values)-1]
	trend := classifyTrend(values, pol, bandPct)
	return MetricSeries{
		Values:          values,
		Trend:           trend,
		IsImprovement:   pol != neutral && trend == TrendImproving,
		Delta:           last - first,
		DeltaPercentage: percentChange(first, last),
	}
}

// percentChange is the zero-guarded relative change: a 0 baseline yields 0
// rather than Inf/NaN so a metric appearing from nothing renders as flat.
func percentChange(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return (to - from) / from * 100
}

// classifyTrend inspects every consecutive pair of values. Pairs within the
// stability band count as flat; the series is stable when all pairs are
// flat, variable when direction reverses beyond the band, and otherwise
// improving or degrading according to the metric's polarity.
func classifyTrend(values []float64, pol polarity, bandPct float64) Trend {
	var up, down bool
	for i := 1; i < len(values); i++ {
		switch pairDirection(values[i-1], values[i], bandPct) {
		case 1:
			up = true
		case -1:
			down = true
		}
	}

	switch {
	case !up && !down:
		return TrendStable
	case up && down:
		return TrendVariable
	case up:
		if pol == higherIsBetter {
			return TrendImproving
		}
		return TrendDegrading
	default:
		if pol == higherIsBetter {
			return TrendDegrading
		}
		return TrendImproving
	}
}

// pairDirection returns -1, 0, or 1 for one consecutive pair: 0 when the
// movement is within the stability band, otherwise the sign of the raw
// delta. A zero baseline falls back to an absolute near-zero band.
func pairDirection(from, to float64, bandPct float64) int {
	delta := to - from
	if from == 0 {
		if math.Abs(delta) <= absStabilityBand {
			return 0
		}
	} else if math.Abs(delta/from*100) <= bandPct {
		return 0
	}
	if delta > 0 {
		return 1
	}
	return -1
}
