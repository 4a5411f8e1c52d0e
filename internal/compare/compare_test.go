package compare

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck/internal/model"
)

func mkRun(id, ts string, stats model.RunStats) model.HistoryRecord {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return model.HistoryRecord{
		ID:          id,
		ProjectName: "demo",
		Timestamp:   t,
		Stats:       stats,
	}
}

func TestRuns_RejectsBadArity(t *testing.T) {
	r1 := mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})
	r2 := mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})
	r3 := mkRun("c", "2024-01-03T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})
	r4 := mkRun("d", "2024-01-04T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})

	for _, tt := range []struct {
		name    string
		runs    []model.HistoryRecord
		wantErr bool
	}{
		{"zero runs", nil, true},
		{"one run", []model.HistoryRecord{r1}, true},
		{"two runs", []model.HistoryRecord{r1, r2}, false},
		{"three runs", []model.HistoryRecord{r1, r2, r3}, false},
		{"four runs", []model.HistoryRecord{r1, r2, r3, r4}, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Runs(tt.runs)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRunCount) {
					t.Fatalf("expected ErrInvalidRunCount, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRuns_SortsByTimestamp(t *testing.T) {
	r1 := mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{TotalTests: 10, Passed: 8, Failed: 2})
	r2 := mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 10, Passed: 9, Failed: 1})
	r3 := mkRun("c", "2024-01-03T00:00:00Z", model.RunStats{TotalTests: 10, Passed: 10})

	permutations := [][]model.HistoryRecord{
		{r1, r2, r3},
		{r1, r3, r2},
		{r2, r1, r3},
		{r2, r3, r1},
		{r3, r1, r2},
		{r3, r2, r1},
	}

	want, err := Runs(permutations[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, run := range want.Runs {
		if got := []string{"a", "b", "c"}[i]; run.ID != got {
			t.Fatalf("runs[%d] = %s, want %s", i, run.ID, got)
		}
	}

	for i, perm := range permutations[1:] {
		got, err := Runs(perm)
		if err != nil {
			t.Fatalf("permutation %d: unexpected error: %v", i+1, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("permutation %d: result differs from canonical order", i+1)
		}
	}
}

func TestRuns_DoesNotMutateInput(t *testing.T) {
	r1 := mkRun("a", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})
	r2 := mkRun("b", "2024-01-01T00:00:00Z", model.RunStats{TotalTests: 1, Failed: 1})
	input := []model.HistoryRecord{r1, r2}

	if _, err := Runs(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input[0].ID != "a" || input[1].ID != "b" {
		t.Errorf("input slice was reordered: got [%s %s]", input[0].ID, input[1].ID)
	}
}

// Three runs that improved on every polarized metric at once.
func TestRuns_ImprovingScenario(t *testing.T) {
	runs := []model.HistoryRecord{
		mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{
			TotalTests: 10, Passed: 8, Failed: 2,
			AvgScore: 0.85, TotalCost: 0.05, TotalLatency: 5000,
		}),
		mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{
			TotalTests: 10, Passed: 9, Failed: 1,
			AvgScore: 0.90, TotalCost: 0.04, TotalLatency: 4500,
		}),
		mkRun("c", "2024-01-03T00:00:00Z", model.RunStats{
			TotalTests: 10, Passed: 10,
			AvgScore: 0.95, TotalCost: 0.03, TotalLatency: 4000,
		}),
	}

	result, err := Runs(runs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, tt := range []struct {
		name   string
		series MetricSeries
	}{
		{"passRate", result.Metrics.PassRate},
		{"avgScore", result.Metrics.AvgScore},
		{"totalCost", result.Metrics.TotalCost},
		{"avgLatency", result.Metrics.AvgLatency},
	} {
		if tt.series.Trend != TrendImproving {
			t.Errorf("%s trend = %s, want improving", tt.name, tt.series.Trend)
		}
		if !tt.series.IsImprovement {
			t.Errorf("%s IsImprovement = false, want true", tt.name)
		}
	}

	if got := result.Metrics.PassRate.Values; !reflect.DeepEqual(got, []float64{80, 90, 100}) {
		t.Errorf("passRate values = %v, want [80 90 100]", got)
	}
	if got := result.Metrics.AvgLatency.Values; !reflect.DeepEqual(got, []float64{500, 450, 400}) {
		t.Errorf("avgLatency values = %v, want [500 450 400]", got)
	}
}

func TestRuns_ConfigDiffUsesSortedOrder(t *testing.T) {
	first := mkRun("a", "2024-01-01T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})
	first.Project.Providers = []model.ProviderConfig{{ProviderID: "openai:gpt-4o-mini"}}
	last := mkRun("b", "2024-01-02T00:00:00Z", model.RunStats{TotalTests: 1, Passed: 1})
	last.Project.Providers = []model.ProviderConfig{{ProviderID: "anthropic:claude-sonnet-4-5"}}

	// Pass the later run first: the diff must still read earliest -> latest.
	result, err := Runs([]model.HistoryRecord{last, first})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Config.ProviderModel.Changed {
		t.Fatal("ProviderModel.Changed = false, want true")
	}
	if result.Config.ProviderModel.Before != "openai:gpt-4o-mini" {
		t.Errorf("Before = %q, want the earlier run's provider", result.Config.ProviderModel.Before)
	}
	if result.Config.ProviderModel.After != "anthropic:claude-sonnet-4-5" {
		t.Errorf("After = %q, want the later run's provider", result.Config.ProviderModel.After)
	}
}
