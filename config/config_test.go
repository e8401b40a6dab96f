package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.NumberOfQueries != 2 {
		t.Errorf("Expected default NumberOfQueries 2, got %d", cfg.NumberOfQueries)
	}

	if cfg.MaxSearchDepth != 2 {
		t.Errorf("Expected default MaxSearchDepth 2, got %d", cfg.MaxSearchDepth)
	}

	if cfg.SearchProvider != "tavily" {
		t.Errorf("Expected default search provider tavily, got %s", cfg.SearchProvider)
	}

	if cfg.ReportStructure == "" {
		t.Error("Expected non-empty default report structure")
	}

	if cfg.SearchBatchDelay != time.Second {
		t.Errorf("Expected default batch delay 1s, got %v", cfg.SearchBatchDelay)
	}

	if !cfg.SearchValidateURLs {
		t.Error("Expected URL validation enabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DEEPRESEARCH_NUMBER_OF_QUERIES", "5")
	t.Setenv("DEEPRESEARCH_MAX_SEARCH_DEPTH", "3")
	t.Setenv("DEEPRESEARCH_SEARCH_PROVIDER", "duckduckgo")
	t.Setenv("DEEPRESEARCH_SEARCH_BATCH_DELAY", "250ms")
	t.Setenv("DEEPRESEARCH_SEARCH_INCLUDE_RAW", "false")
	t.Setenv("DEEPRESEARCH_SEARCH_VALIDATE_URLS", "false")

	cfg := Load()

	if cfg.NumberOfQueries != 5 {
		t.Errorf("Expected NumberOfQueries 5, got %d", cfg.NumberOfQueries)
	}

	if cfg.MaxSearchDepth != 3 {
		t.Errorf("Expected MaxSearchDepth 3, got %d", cfg.MaxSearchDepth)
	}

	if cfg.SearchProvider != "duckduckgo" {
		t.Errorf("Expected search provider duckduckgo, got %s", cfg.SearchProvider)
	}

	if cfg.SearchBatchDelay != 250*time.Millisecond {
		t.Errorf("Expected batch delay 250ms, got %v", cfg.SearchBatchDelay)
	}

	if cfg.SearchIncludeRaw {
		t.Error("Expected SearchIncludeRaw false")
	}

	if cfg.SearchValidateURLs {
		t.Error("Expected SearchValidateURLs false when opted out")
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("DEEPRESEARCH_NUMBER_OF_QUERIES", "not-a-number")
	t.Setenv("DEEPRESEARCH_SEARCH_BATCH_DELAY", "soon")

	cfg := Load()

	if cfg.NumberOfQueries != 2 {
		t.Errorf("Expected default NumberOfQueries on parse failure, got %d", cfg.NumberOfQueries)
	}

	if cfg.SearchBatchDelay != time.Second {
		t.Errorf("Expected default batch delay on parse failure, got %v", cfg.SearchBatchDelay)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid duckduckgo config",
			mutate:    func(c *Config) { c.SearchProvider = "duckduckgo" },
			wantError: false,
		},
		{
			name:      "tavily without api key",
			mutate:    func(c *Config) { c.SearchProvider = "tavily"; c.TavilyAPIKey = "" },
			wantError: true,
		},
		{
			name:      "tavily with api key",
			mutate:    func(c *Config) { c.SearchProvider = "tavily"; c.TavilyAPIKey = "tvly-key" },
			wantError: false,
		},
		{
			name:      "unsupported search provider",
			mutate:    func(c *Config) { c.SearchProvider = "bing" },
			wantError: true,
		},
		{
			name:      "unsupported planner provider",
			mutate:    func(c *Config) { c.SearchProvider = "duckduckgo"; c.PlannerProvider = "cohere" },
			wantError: true,
		},
		{
			name:      "zero search depth",
			mutate:    func(c *Config) { c.SearchProvider = "duckduckgo"; c.MaxSearchDepth = 0 },
			wantError: true,
		},
		{
			name:      "negative query count",
			mutate:    func(c *Config) { c.SearchProvider = "duckduckgo"; c.NumberOfQueries = -1 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			hasError := err != nil
			if hasError != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
