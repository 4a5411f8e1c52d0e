package config

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every env var that Load consults so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PROMPTDECK_PROVIDER", "PROMPTDECK_MODEL", "PROMPTDECK_API_KEY",
		"PROMPTDECK_BASE_URL", "PROMPTDECK_MAX_TOKENS", "PROMPTDECK_HISTORY_DIR",
		"PROMPTDECK_STABILITY_BAND_PCT", "PROMPTDECK_SCORE_CHANGE_THRESHOLD",
		"PROMPTDECK_THEME", "NO_COLOR",
		"OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_HEADERS",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "anthropic")
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("Model: got %q, want %q", cfg.Model, "claude-sonnet-4-5")
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("MaxTokens: got %d, want %d", cfg.MaxTokens, 4096)
	}
	if cfg.StabilityBandPct != 1.0 {
		t.Errorf("StabilityBandPct: got %v, want %v", cfg.StabilityBandPct, 1.0)
	}
	if cfg.ScoreChangeThreshold != 0.1 {
		t.Errorf("ScoreChangeThreshold: got %v, want %v", cfg.ScoreChangeThreshold, 0.1)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, "dark")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".promptdeck.yaml")
	content := `provider: openai
model: gpt-4o-mini
api_key: test-key-123
max_tokens: 8192
history_dir: /tmp/deck-history
stability_band_pct: 2.5
score_change_threshold: 0.2
theme: light
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	// Change to temp dir so Load() finds the config
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)

	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("Provider: got %q, want %q", cfg.Provider, "openai")
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Errorf("Model: got %q, want %q", cfg.Model, "gpt-4o-mini")
	}
	if cfg.APIKey != "test-key-123" {
		t.Errorf("APIKey: got %q, want %q", cfg.APIKey, "test-key-123")
	}
	if cfg.MaxTokens != 8192 {
		t.Errorf("MaxTokens: got %d, want %d", cfg.MaxTokens, 8192)
	}
	if cfg.HistoryDir != "/tmp/deck-history" {
		t.Errorf("HistoryDir: got %q, want %q", cfg.HistoryDir, "/tmp/deck-history")
	}
	if cfg.StabilityBandPct != 2.5 {
		t.Errorf("StabilityBandPct: got %v, want %v", cfg.StabilityBandPct, 2.5)
	}
	if cfg.ScoreChangeThreshold != 0.2 {
		t.Errorf("ScoreChangeThreshold: got %v, want %v", cfg.ScoreChangeThreshold, 0.2)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, "light")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".promptdeck.yaml")
	content := `provider: openai
model: gpt-4o-mini
api_key: file-key
`
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(dir)

	clearEnv(t)
	t.Setenv("PROMPTDECK_PROVIDER", "anthropic")
	t.Setenv("PROMPTDECK_MODEL", "claude-sonnet-4-5")
	t.Setenv("PROMPTDECK_API_KEY", "env-key")
	t.Setenv("PROMPTDECK_STABILITY_BAND_PCT", "3.0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("Provider: got %q, want %q (env should override file)", cfg.Provider, "anthropic")
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("Model: got %q, want %q (env should override file)", cfg.Model, "claude-sonnet-4-5")
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("APIKey: got %q, want %q (env should override file)", cfg.APIKey, "env-key")
	}
	if cfg.StabilityBandPct != 3.0 {
		t.Errorf("StabilityBandPct: got %v, want 3.0", cfg.StabilityBandPct)
	}
}

func TestAPIKeyFallback(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)
	os.Chdir(t.TempDir())

	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "fallback-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "fallback-key" {
		t.Errorf("APIKey: got %q, want %q", cfg.APIKey, "fallback-key")
	}
}

func TestIsAzureEndpoint(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://myresource.openai.azure.com/openai/v1", true},
		{"https://myresource.services.ai.azure.com/anthropic/", true},
		{"https://myresource.azure.us/foo", true},
		{"https://api.anthropic.com/", false},
		{"https://api.openai.com/v1", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsAzureEndpoint(tt.url)
			if got != tt.want {
				t.Errorf("IsAzureEndpoint(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
