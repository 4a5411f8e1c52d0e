// Package config loads promptdeck configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (PROMPTDECK_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .promptdeck.yaml in current directory
//  2. ~/.config/promptdeck/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all promptdeck configuration.
type Config struct {
	// LLM settings for the explain command.
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int64  `yaml:"max_tokens"`

	// HistoryDir overrides where run records are stored.
	// Empty means the XDG data directory.
	HistoryDir string `yaml:"history_dir"`

	// Comparison thresholds.
	StabilityBandPct     float64 `yaml:"stability_band_pct"`     // relative band (%) within which a metric counts as stable
	ScoreChangeThreshold float64 `yaml:"score_change_threshold"` // score spread marking a test as "changed"

	// Report rendering.
	Theme   string `yaml:"theme"` // "dark" or "light"
	NoColor bool   `yaml:"no_color"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Provider:             "anthropic",
		Model:                "claude-sonnet-4-5",
		MaxTokens:            4096,
		StabilityBandPct:     1.0,
		ScoreChangeThreshold: 0.1,
		Theme:                "dark",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)
	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".promptdeck.yaml"); err == nil {
		return ".promptdeck.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "promptdeck", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Provider != "" {
		cfg.Provider = file.Provider
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if file.MaxTokens > 0 {
		cfg.MaxTokens = file.MaxTokens
	}
	if file.HistoryDir != "" {
		cfg.HistoryDir = file.HistoryDir
	}
	if file.StabilityBandPct > 0 {
		cfg.StabilityBandPct = file.StabilityBandPct
	}
	if file.ScoreChangeThreshold > 0 {
		cfg.ScoreChangeThreshold = file.ScoreChangeThreshold
	}
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.NoColor {
		cfg.NoColor = file.NoColor
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("PROMPTDECK_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("PROMPTDECK_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PROMPTDECK_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PROMPTDECK_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("PROMPTDECK_MAX_TOKENS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("PROMPTDECK_HISTORY_DIR"); v != "" {
		cfg.HistoryDir = v
	}
	if v := os.Getenv("PROMPTDECK_STABILITY_BAND_PCT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.StabilityBandPct = f
		}
	}
	if v := os.Getenv("PROMPTDECK_SCORE_CHANGE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.ScoreChangeThreshold = f
		}
	}
	if v := os.Getenv("PROMPTDECK_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		cfg.NoColor = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}

	// API key fallbacks
	if cfg.APIKey == "" {
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.APIKey = v
		}
	}
	if cfg.APIKey == "" {
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.APIKey = v
		}
	}
}

// IsAzureEndpoint returns true if the URL is an Azure endpoint.
func IsAzureEndpoint(url string) bool {
	return strings.Contains(url, ".azure.com") || strings.Contains(url, ".azure.us")
}
