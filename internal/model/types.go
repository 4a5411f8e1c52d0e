package model

import "time"

// HistoryRecord is one completed evaluation run: the raw result document
// produced by the eval CLI paired with a snapshot of the project
// configuration that produced it.
type HistoryRecord struct {
	// ID is an opaque unique identifier assigned when the record is saved.
	ID string `json:"id"`
	// ProjectName is the project's display name at the time of the run.
	ProjectName string `json:"projectName"`
	// Timestamp is the run creation time. Runs are ordered by it.
	Timestamp time.Time `json:"timestamp"`
	// Stats is the precomputed summary over Results. The comparison engine
	// treats it as already correct; see CalculateStats for the derivation.
	Stats RunStats `json:"stats"`
	// Results is the raw per-test result document as returned by the eval
	// tool. Fields inside are best-effort parsed, never assumed present.
	Results ResultsDocument `json:"results"`
	// Project is the configuration snapshot that produced this run.
	Project ProjectSnapshot `json:"project"`
}

// RunStats summarizes one run's results.
type RunStats struct {
	TotalTests int `json:"totalTests"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	// AvgScore is the mean score over scored tests, in [0.0, 1.0].
	AvgScore float64 `json:"avgScore"`
	// TotalCost is the summed cost in currency units. Negative values
	// (provider credits/refunds) are legal.
	TotalCost float64 `json:"totalCost"`
	// TotalLatency is the summed per-test latency in milliseconds.
	TotalLatency float64 `json:"totalLatency"`
}

// ProjectSnapshot captures the configuration a run was produced with.
type ProjectSnapshot struct {
	Providers  []ProviderConfig `json:"providers"`
	Prompts    []Prompt         `json:"prompts"`
	Dataset    Dataset          `json:"dataset"`
	Assertions []Assertion      `json:"assertions"`
}

// ProviderConfig identifies one LLM provider entry in the project config.
type ProviderConfig struct {
	// ProviderID is the canonical provider identifier (e.g. "openai:gpt-4o-mini").
	ProviderID string `json:"providerId"`
	// Config holds provider-specific settings (temperature, max tokens, ...).
	Config map[string]any `json:"config,omitempty"`
}

// Prompt is one prompt template in the project config.
type Prompt struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
	Text  string `json:"text"`
}

// Dataset is the tabular test input data.
type Dataset struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// Assertion is one output check configured for every test.
type Assertion struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}
