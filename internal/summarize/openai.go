package summarize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OpenAISummarizer summarizes comparisons using an OpenAI-compatible Chat
// Completions API. Works with OpenAI, Azure OpenAI, and any compatible
// endpoint.
type OpenAISummarizer struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// OpenAIConfig holds configuration for the OpenAI summarizer.
type OpenAIConfig struct {
	// BaseURL is the API endpoint.
	BaseURL string
	// APIKey is the API key.
	APIKey string
	// Model is the model name (e.g., "gpt-4o-mini").
	Model string
	// MaxTokens is the maximum number of completion tokens. For reasoning
	// models this must be large enough for reasoning plus output content.
	MaxTokens int64
	// ExtraHeaders are additional HTTP headers.
	ExtraHeaders map[string]string
}

// NewOpenAISummarizer creates a new OpenAI-compatible summarizer.
func NewOpenAISummarizer(cfg OpenAIConfig) *OpenAISummarizer {
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

	client := openai.NewClient(opts...)

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	return &OpenAISummarizer{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
	}
}

// Provider returns "openai".
func (s *OpenAISummarizer) Provider() string {
	return "openai"
}

// Model returns the model name.
func (s *OpenAISummarizer) Model() string {
	return s.model
}

// Summarize sends the comparison digest to an OpenAI-compatible API and
// returns the narrative.
func (s *OpenAISummarizer) Summarize(ctx context.Context, digest string) (*Explanation, error) {
	userMessage := UserPromptTemplate + digest

	ctx, span := sumTracer.Start(ctx, "chat "+s.model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", "openai"),
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

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(userMessage),
		},
		MaxCompletionTokens: openai.Int(s.maxTokens),
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return nil, fmt.Errorf("openai API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return nil, fmt.Errorf("openai API returned empty response")
	}

	rawText := resp.Choices[0].Message.Content

	span.SetAttributes(
		attribute.String("gen_ai.response.model", resp.Model),
		attribute.String("gen_ai.response.id", resp.ID),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
	)
	if resp.Choices[0].FinishReason != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{string(resp.Choices[0].FinishReason)}))
	}

	return &Explanation{
		Text:         stripMarkdownFences(rawText),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
