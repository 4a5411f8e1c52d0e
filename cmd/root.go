package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/compare"
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/history"
	"github.com/promptdeck/promptdeck/internal/otel"
	"github.com/promptdeck/promptdeck/internal/summarize"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags. Empty values fall through to config file / env / defaults.
	flagProvider   string
	flagModel      string
	flagBaseURL    string
	flagAPIKey     string
	flagMaxTokens  int64
	flagHistoryDir string
	flagTheme      string
	flagNoColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "promptdeck",
	Short: "Track and compare LLM prompt-evaluation runs",
	Long: `promptdeck keeps a local history of prompt-evaluation runs (the JSON
result documents produced by your eval tool) and compares 2–3 runs:
per-metric trends, configuration drift, and per-test regressions.

Import runs with "import", then "compare" or "explain" them.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	// Optional .env for API keys, same precedence as the real environment.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	otel.Version = Version

	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider for explain: anthropic, openai")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "LLM model name for explain")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override LLM API base URL")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "override LLM API key")
	rootCmd.PersistentFlags().Int64Var(&flagMaxTokens, "max-tokens", 0, "max completion tokens for explain")
	rootCmd.PersistentFlags().StringVar(&flagHistoryDir, "history-dir", "", "directory holding run history records")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "", "report color theme: dark, light")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored report output")
}

// loadConfig resolves the effective configuration: defaults, config file,
// environment, then command-line flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}
	if flagAPIKey != "" {
		cfg.APIKey = flagAPIKey
	}
	if flagMaxTokens > 0 {
		cfg.MaxTokens = flagMaxTokens
	}
	if flagHistoryDir != "" {
		cfg.HistoryDir = flagHistoryDir
	}
	if flagTheme != "" {
		cfg.Theme = flagTheme
	}
	if flagNoColor {
		cfg.NoColor = true
	}
	return cfg, nil
}

// getStore opens the history store from the resolved configuration.
func getStore(cfg *config.Config) (*history.Store, error) {
	dir := cfg.HistoryDir
	if dir == "" {
		dir = history.DefaultDir()
	}
	return history.NewStore(dir)
}

// compareOptions maps the configured thresholds onto engine options.
func compareOptions(cfg *config.Config) compare.Options {
	return compare.Options{
		StabilityBandPct:     cfg.StabilityBandPct,
		ScoreChangeThreshold: cfg.ScoreChangeThreshold,
	}
}

// getSummarizer returns the configured LLM summarizer.
func getSummarizer(cfg *config.Config) (summarize.Summarizer, error) {
	switch cfg.Provider {
	case "anthropic":
		return newAnthropicSummarizer(cfg)
	case "openai":
		return newOpenAISummarizer(cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: anthropic, openai)", cfg.Provider)
	}
}

// newAnthropicSummarizer creates an Anthropic summarizer with the resolved config.
func newAnthropicSummarizer(cfg *config.Config) (summarize.Summarizer, error) {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-5"
	}

	baseURL := cfg.BaseURL
	apiKey := cfg.APIKey
	extraHeaders := map[string]string{}

	if baseURL == "" {
		if resourceName := os.Getenv("AZURE_RESOURCE_NAME"); resourceName != "" {
			// The Anthropic SDK appends /v1/messages to the base URL, so the
			// Azure AI Foundry base is .../anthropic/.
			baseURL = fmt.Sprintf("https://%s.services.ai.azure.com/anthropic/", resourceName)
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key found. Set PROMPTDECK_API_KEY, AZURE_OPENAI_API_KEY, or ANTHROPIC_API_KEY")
	}

	// Azure AI Foundry needs both "api-key" (Azure) and "x-api-key" (Anthropic SDK default) headers.
	if os.Getenv("AZURE_RESOURCE_NAME") != "" || config.IsAzureEndpoint(baseURL) {
		extraHeaders["api-key"] = apiKey
	}

	return summarize.NewAnthropicSummarizer(summarize.AnthropicConfig{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		MaxTokens:    cfg.MaxTokens,
		ExtraHeaders: extraHeaders,
	}), nil
}

// newOpenAISummarizer creates an OpenAI summarizer with the resolved config.
func newOpenAISummarizer(cfg *config.Config) (summarize.Summarizer, error) {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	baseURL := cfg.BaseURL
	apiKey := cfg.APIKey
	extraHeaders := map[string]string{}

	if baseURL == "" {
		if resourceName := os.Getenv("AZURE_RESOURCE_NAME"); resourceName != "" {
			baseURL = fmt.Sprintf("https://%s.openai.azure.com/openai/v1", resourceName)
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key found. Set PROMPTDECK_API_KEY, AZURE_OPENAI_API_KEY, or OPENAI_API_KEY")
	}

	if os.Getenv("AZURE_RESOURCE_NAME") != "" || config.IsAzureEndpoint(baseURL) {
		extraHeaders["api-key"] = apiKey
	}

	return summarize.NewOpenAISummarizer(summarize.OpenAIConfig{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		MaxTokens:    cfg.MaxTokens,
		ExtraHeaders: extraHeaders,
	}), nil
}
