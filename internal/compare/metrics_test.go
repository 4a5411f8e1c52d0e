package compare

import (
	"testing"

	"github.com/promptdeck/promptdeck/internal/model"
)

func TestClassifyTrend(t *testing.T) {
	band := DefaultOptions().StabilityBandPct

	tests := []struct {
		name   string
		values []float64
		pol    polarity
		want   Trend
	}{
		{"monotone up higher-better", []float64{80, 90, 100}, higherIsBetter, TrendImproving},
		{"monotone down higher-better", []float64{95, 85, 75}, higherIsBetter, TrendDegrading},
		{"reversal", []float64{50, 90, 40}, higherIsBetter, TrendVariable},
		{"score reversal", []float64{0.5, 0.9, 0.4}, higherIsBetter, TrendVariable},
		{"monotone down lower-better", []float64{500, 450, 400}, lowerIsBetter, TrendImproving},
		{"monotone up lower-better", []float64{0.03, 0.04, 0.05}, lowerIsBetter, TrendDegrading},
		{"two equal values", []float64{0.9, 0.9}, higherIsBetter, TrendStable},
		{"all zero", []float64{0, 0, 0}, higherIsBetter, TrendStable},
		{"within stability band", []float64{100, 100.5, 100.2}, higherIsBetter, TrendStable},
		{"flat then up", []float64{100, 100.5, 110}, higherIsBetter, TrendImproving},
		{"zero baseline then jump", []float64{0, 5}, higherIsBetter, TrendImproving},
		{"negative cost becoming cheaper", []float64{-0.01, -0.02}, lowerIsBetter, TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTrend(tt.values, tt.pol, band); got != tt.want {
				t.Errorf("classifyTrend(%v) = %s, want %s", tt.values, got, tt.want)
			}
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"simple rise", 80, 100, 25},
		{"simple fall", 100, 80, -20},
		{"equal", 0.9, 0.9, 0},
		{"zero baseline guarded", 0, 0.05, 0},
		{"zero to zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentChange(tt.from, tt.to); got != tt.want {
				t.Errorf("percentChange(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestNewSeries_DeltaArithmetic(t *testing.T) {
	s := newSeries([]float64{80, 100}, higherIsBetter, 1.0)
	if s.Delta != 20 {
		t.Errorf("Delta = %v, want 20", s.Delta)
	}
	if s.DeltaPercentage != 25 {
		t.Errorf("DeltaPercentage = %v, want 25", s.DeltaPercentage)
	}
	if s.Trend != TrendImproving {
		t.Errorf("Trend = %s, want improving", s.Trend)
	}
}

func TestNewSeries_ZeroBaselineDeltaPercentage(t *testing.T) {
	s := newSeries([]float64{0, 0.05}, lowerIsBetter, 1.0)
	if s.DeltaPercentage != 0 {
		t.Errorf("DeltaPercentage = %v, want 0 for a zero baseline", s.DeltaPercentage)
	}
	if s.Delta != 0.05 {
		t.Errorf("Delta = %v, want 0.05", s.Delta)
	}
}

func TestNewSeries_EqualValuesStable(t *testing.T) {
	s := newSeries([]float64{0.9, 0.9}, higherIsBetter, 1.0)
	if s.Trend != TrendStable {
		t.Errorf("Trend = %s, want stable", s.Trend)
	}
	if s.Delta != 0 || s.DeltaPercentage != 0 {
		t.Errorf("Delta/DeltaPercentage = %v/%v, want 0/0", s.Delta, s.DeltaPercentage)
	}
	if s.IsImprovement {
		t.Error("IsImprovement = true for a stable series")
	}
}

func TestComputeMetrics_ZeroTotalTests(t *testing.T) {
	runs := []model.HistoryRecord{
		mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{}),
		mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 4, Passed: 2, Failed: 2, TotalLatency: 800}),
	}

	m := computeMetrics(runs, DefaultOptions())
	if m.PassRate.Values[0] != 0 {
		t.Errorf("passRate[0] = %v, want 0 for a run with no tests", m.PassRate.Values[0])
	}
	if m.AvgLatency.Values[0] != 0 {
		t.Errorf("avgLatency[0] = %v, want 0 for a run with no tests", m.AvgLatency.Values[0])
	}
	if m.PassRate.Values[1] != 50 {
		t.Errorf("passRate[1] = %v, want 50", m.PassRate.Values[1])
	}
	if m.AvgLatency.Values[1] != 200 {
		t.Errorf("avgLatency[1] = %v, want 200", m.AvgLatency.Values[1])
	}
}

func TestComputeMetrics_TokenUsageNeutral(t *testing.T) {
	runs := []model.HistoryRecord{
		mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1}),
		mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1}),
	}
	runs[0].Results.Stats = &model.ResultsStats{TokenUsage: &model.TokenUsage{Total: 2000}}
	runs[1].Results.Stats = &model.ResultsStats{TokenUsage: &model.TokenUsage{Total: 1000}}

	m := computeMetrics(runs, DefaultOptions())
	if m.TokenUsage.Values[0] != 2000 || m.TokenUsage.Values[1] != 1000 {
		t.Fatalf("tokenUsage values = %v, want [2000 1000]", m.TokenUsage.Values)
	}
	// Token count dropping is not an "improvement": the metric is neutral.
	if m.TokenUsage.IsImprovement {
		t.Error("tokenUsage IsImprovement = true, want false (neutral metric)")
	}
}

func TestComputeMetrics_MissingTokenUsage(t *testing.T) {
	runs := []model.HistoryRecord{
		mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1}),
		mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1}),
	}

	m := computeMetrics(runs, DefaultOptions())
	if m.TokenUsage.Values[0] != 0 || m.TokenUsage.Values[1] != 0 {
		t.Errorf("tokenUsage values = %v, want zeros when unreported", m.TokenUsage.Values)
	}
	if m.TokenUsage.Trend != TrendStable {
		t.Errorf("tokenUsage trend = %s, want stable", m.TokenUsage.Trend)
	}
}
