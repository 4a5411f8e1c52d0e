package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "promptdeck"

// Metrics holds all OTEL metric instruments for promptdeck.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Comparison counters (partitioned by run count via attributes)
	Comparisons     metric.Int64Counter
	RegressionsSeen metric.Int64Counter

	// History store counters
	HistorySaves metric.Int64Counter
	HistoryLoads metric.Int64Counter

	// LLM token counters for the explain command (partitioned by
	// provider + model via attributes)
	InputTokens  metric.Int64Counter
	OutputTokens metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Comparisons, err = meter.Int64Counter("comparisons.total",
		metric.WithDescription("Total run comparisons performed, partitioned by run count"))
	if err != nil {
		return nil, err
	}

	m.RegressionsSeen, err = meter.Int64Counter("comparisons.regressions",
		metric.WithDescription("Total regressed tests detected across comparisons"),
		metric.WithUnit("{test}"))
	if err != nil {
		return nil, err
	}

	m.HistorySaves, err = meter.Int64Counter("history.saves",
		metric.WithDescription("Number of history records written"))
	if err != nil {
		return nil, err
	}

	m.HistoryLoads, err = meter.Int64Counter("history.loads",
		metric.WithDescription("Number of history records read"))
	if err != nil {
		return nil, err
	}

	m.InputTokens, err = meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total LLM input tokens consumed by explain"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.OutputTokens, err = meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total LLM output tokens consumed by explain"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordComparison records one completed comparison and how many regressed
// tests it surfaced.
func (m *Metrics) RecordComparison(ctx context.Context, runCount, regressions int) {
	if m == nil {
		return
	}
	m.Comparisons.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("comparison.run_count", runCount),
	))
	if regressions > 0 {
		m.RegressionsSeen.Add(ctx, int64(regressions))
	}
}

// RecordHistorySave records one history record write.
func (m *Metrics) RecordHistorySave(ctx context.Context) {
	if m == nil {
		return
	}
	m.HistorySaves.Add(ctx, 1)
}

// RecordHistoryLoads records history record reads.
func (m *Metrics) RecordHistoryLoads(ctx context.Context, n int) {
	if m == nil {
		return
	}
	m.HistoryLoads.Add(ctx, int64(n))
}

// RecordTokens records LLM token usage on the metric counters.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, input, output int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	m.InputTokens.Add(ctx, input, attrs)
	m.OutputTokens.Add(ctx, output, attrs)
}
