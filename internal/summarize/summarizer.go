// Package summarize turns a run comparison into a short natural-language
// narrative using an LLM.
//
// Go code builds a compact text digest of the comparison and parses the
// response; the judgment about which movements matter and how config drift
// explains them is left entirely to the model.
package summarize

import "context"

// Summarizer sends a comparison digest to an LLM and returns a narrative.
type Summarizer interface {
	// Summarize sends the digest to an LLM and returns the narrative.
	Summarize(ctx context.Context, digest string) (*Explanation, error)

	// Provider returns the provider name (e.g., "anthropic", "openai").
	Provider() string

	// Model returns the model name used for summarization.
	Model() string
}

// Explanation is the LLM's narrative for one comparison.
type Explanation struct {
	// Text is the narrative in plain markdown.
	Text string `json:"text"`
	// InputTokens and OutputTokens track token consumption for this call.
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}
