package summarize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AnthropicSummarizer summarizes comparisons using the Anthropic Messages API.
// Works with both direct Anthropic API and Azure AI Foundry.
type AnthropicSummarizer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// AnthropicConfig holds configuration for the Anthropic summarizer.
type AnthropicConfig struct {
	// BaseURL is the API endpoint (e.g., "https://resource.services.ai.azure.com/anthropic/").
	BaseURL string
	// APIKey is the API key.
	APIKey string
	// Model is the model name (e.g., "claude-sonnet-4-5").
	Model string
	// MaxTokens is the maximum number of output tokens.
	MaxTokens int64
	// ExtraHeaders are additional HTTP headers (e.g., "api-key" for Azure).
	ExtraHeaders map[string]string
}

// NewAnthropicSummarizer creates a new Anthropic summarizer.
func NewAnthropicSummarizer(cfg AnthropicConfig) *AnthropicSummarizer {
	var opts []option.RequestOption

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	for k, v := range cfg.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}

	client := anthropic.NewClient(opts...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &AnthropicSummarizer{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Provider returns "anthropic".
func (s *AnthropicSummarizer) Provider() string {
	return "anthropic"
}

// Model returns the model name.
func (s *AnthropicSummarizer) Model() string {
	return s.model
}

var sumTracer = otel.Tracer("promptdeck/summarize")

// Summarize sends the comparison digest to the Anthropic API and returns
// the narrative.
func (s *AnthropicSummarizer) Summarize(ctx context.Context, digest string) (*Explanation, error) {
	userMessage := UserPromptTemplate + digest

	// Start a GenAI generation span following OTel GenAI semantic conventions.
	// Span name: "{operation} {model}" per the conventions.
	ctx, span := sumTracer.Start(ctx, "chat "+s.model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", "anthropic"),
			attribute.String("gen_ai.request.model", s.model),
			attribute.Int64("gen_ai.request.max_tokens", s.maxTokens),
		),
	)
	defer span.End()

	inputMessages := []map[string]string{
		{"role": "system", "content": SystemPrompt},
		{"role": "user", "content": userMessage},
	}
	if inputJSON, err := json.Marshal(inputMessages); err == nil {
		span.SetAttributes(attribute.String("gen_ai.input.messages", string(inputJSON)))
	}

	resp, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(userMessage),
			),
		},
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	if len(resp.Content) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return nil, fmt.Errorf("anthropic API returned empty response")
	}

	rawText := resp.Content[0].Text

	span.SetAttributes(
		attribute.String("gen_ai.response.model", s.model),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.OutputTokens),
	)
	if string(resp.StopReason) != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{string(resp.StopReason)}))
	}

	return &Explanation{
		Text:         stripMarkdownFences(rawText),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
