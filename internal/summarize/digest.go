package summarize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/promptdeck/promptdeck/internal/compare"
)

// maxListedTests caps how many regressed/volatile test keys the digest
// names before truncating, to keep the prompt small on large datasets.
const maxListedTests = 10

// Digest renders a comparison result as the compact text block sent to the
// LLM. It carries everything the narrative needs and nothing else: metric
// series with trends, config drift, and the per-test summary with the
// regressed and volatile test identities spelled out.
func Digest(result *compare.Result) string {
	var b strings.Builder

	b.WriteString("## Runs\n")
	for i, run := range result.Runs {
		fmt.Fprintf(&b, "%d. %s (%s): %d tests, %d passed, %d failed\n",
			i+1, run.ProjectName, run.Timestamp.Format("2006-01-02 15:04"),
			run.Stats.TotalTests, run.Stats.Passed, run.Stats.Failed)
	}

	b.WriteString("\n## Metrics\n")
	writeMetric(&b, "pass rate (%)", result.Metrics.PassRate)
	writeMetric(&b, "avg score", result.Metrics.AvgScore)
	writeMetric(&b, "total cost", result.Metrics.TotalCost)
	writeMetric(&b, "avg latency (ms)", result.Metrics.AvgLatency)
	writeMetric(&b, "token usage", result.Metrics.TokenUsage)

	b.WriteString("\n## Config changes (earliest vs latest)\n")
	cfg := result.Config
	if cfg.ProviderModel.Changed {
		fmt.Fprintf(&b, "- provider changed: %s -> %s\n", cfg.ProviderModel.Before, cfg.ProviderModel.After)
	}
	for _, pc := range cfg.PromptChanges {
		fmt.Fprintf(&b, "- prompt %d (%s) text changed\n", pc.Index, pc.Label)
	}
	if cfg.DatasetRows.Changed {
		fmt.Fprintf(&b, "- dataset changed: %d -> %d rows (headers changed: %v)\n",
			cfg.DatasetRows.BeforeRows, cfg.DatasetRows.AfterRows, cfg.DatasetRows.HeadersChanged)
	}
	for _, ac := range cfg.AssertionChanges {
		fmt.Fprintf(&b, "- assertion %d %s\n", ac.Index, ac.Kind)
	}
	if !cfg.ProviderModel.Changed && len(cfg.PromptChanges) == 0 &&
		!cfg.DatasetRows.Changed && len(cfg.AssertionChanges) == 0 {
		b.WriteString("- none\n")
	}

	b.WriteString("\n## Test summary\n")
	s := result.Summary
	fmt.Fprintf(&b, "%d matched tests: %d consistent, %d improved, %d regressed, %d changed, %d volatile\n",
		s.TotalTests, s.ConsistentTests, s.ImprovedTests, s.RegressedTests, s.ChangedTests, s.VolatileTests)

	writeTestList(&b, "Regressed", result.Tests, compare.TestRegressed)
	writeTestList(&b, "Volatile", result.Tests, compare.TestVolatile)

	return b.String()
}

func writeMetric(b *strings.Builder, name string, series compare.MetricSeries) {
	values := make([]string, len(series.Values))
	for i, v := range series.Values {
		values[i] = fmt.Sprintf("%.4g", v)
	}
	fmt.Fprintf(b, "- %s: %s | trend=%s delta=%.4g (%.1f%%)\n",
		name, strings.Join(values, " -> "), series.Trend, series.Delta, series.DeltaPercentage)
}

func writeTestList(b *strings.Builder, heading string, tests []compare.TestComparison, status compare.TestStatus) {
	var keys []string
	for _, tc := range tests {
		if tc.Status == status {
			keys = append(keys, testLabel(tc))
		}
	}
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s tests\n", heading)
	for i, key := range keys {
		if i == maxListedTests {
			fmt.Fprintf(b, "- ... and %d more\n", len(keys)-maxListedTests)
			break
		}
		fmt.Fprintf(b, "- %s\n", key)
	}
}

func testLabel(tc compare.TestComparison) string {
	if len(tc.Vars) == 0 {
		return tc.Key
	}
	keys := make([]string, 0, len(tc.Vars))
	for k := range tc.Vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := tc.Vars[k]
		if len(v) > 40 {
			v = v[:40] + "..."
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ", ")
}
