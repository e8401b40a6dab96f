package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the settings for a research run. Values come from the
// environment once at startup and are validated before use.
type Config struct {
	// Report structure
	ReportStructure string

	// Research loop
	NumberOfQueries int
	MaxSearchDepth  int

	// Models
	PlannerProvider string
	PlannerModel    string
	WriterProvider  string
	WriterModel     string

	// Search
	SearchProvider       string
	SearchMaxResults     int
	SearchBatchSize      int
	SearchBatchDelay     time.Duration
	SearchMaxRetries     int
	SearchIncludeRaw     bool
	SearchValidateURLs   bool
	MaxTokensPerSource   int
	TavilyAPIKey         string

	// Memory
	ThreadID string
}

// Default report organization used when the caller provides none.
const DefaultReportStructure = `Use this structure to create a report on the user-provided topic:

1. Introduction (no research needed)
   - Brief overview of the topic area

2. Main Body Sections:
   - Each section should focus on a sub-topic of the user-provided topic

3. Conclusion
   - Aim for 1 structural element (either a list or table) that distills the main body sections
   - Provide a concise summary of the report`

// Load reads configuration from environment variables, applying defaults
// for anything unset.
func Load() *Config {
	return &Config{
		ReportStructure: envStr("DEEPRESEARCH_REPORT_STRUCTURE", DefaultReportStructure),

		NumberOfQueries: envInt("DEEPRESEARCH_NUMBER_OF_QUERIES", 2),
		MaxSearchDepth:  envInt("DEEPRESEARCH_MAX_SEARCH_DEPTH", 2),

		PlannerProvider: envStr("DEEPRESEARCH_PLANNER_PROVIDER", "openai"),
		PlannerModel:    envStr("DEEPRESEARCH_PLANNER_MODEL", "gpt-4o"),
		WriterProvider:  envStr("DEEPRESEARCH_WRITER_PROVIDER", "anthropic"),
		WriterModel:     envStr("DEEPRESEARCH_WRITER_MODEL", "claude-sonnet-4-20250514"),

		SearchProvider:     envStr("DEEPRESEARCH_SEARCH_PROVIDER", "tavily"),
		SearchMaxResults:   envInt("DEEPRESEARCH_SEARCH_MAX_RESULTS", 5),
		SearchBatchSize:    envInt("DEEPRESEARCH_SEARCH_BATCH_SIZE", 4),
		SearchBatchDelay:   envDuration("DEEPRESEARCH_SEARCH_BATCH_DELAY", time.Second),
		SearchMaxRetries:   envInt("DEEPRESEARCH_SEARCH_MAX_RETRIES", 3),
		SearchIncludeRaw:   envBool("DEEPRESEARCH_SEARCH_INCLUDE_RAW", true),
		SearchValidateURLs: envBool("DEEPRESEARCH_SEARCH_VALIDATE_URLS", true),
		MaxTokensPerSource: envInt("DEEPRESEARCH_MAX_TOKENS_PER_SOURCE", 4000),
		TavilyAPIKey:       envStr("TAVILY_API_KEY", ""),

		ThreadID: envStr("DEEPRESEARCH_THREAD_ID", ""),
	}
}

// Validate checks that the configuration is coherent enough to run with.
func (c *Config) Validate() error {
	v := NewValidator()

	v.RequireNonEmpty("reportStructure", c.ReportStructure)
	v.RequirePositive("numberOfQueries", c.NumberOfQueries)
	v.RequirePositive("maxSearchDepth", c.MaxSearchDepth)
	v.ValidateOneOf("plannerProvider", c.PlannerProvider, "openai", "anthropic", "gemini")
	v.RequireNonEmpty("plannerModel", c.PlannerModel)
	v.ValidateOneOf("writerProvider", c.WriterProvider, "openai", "anthropic", "gemini")
	v.RequireNonEmpty("writerModel", c.WriterModel)
	v.ValidateOneOf("searchProvider", c.SearchProvider, "tavily", "duckduckgo")
	v.RequirePositive("searchMaxResults", c.SearchMaxResults)
	v.RequirePositive("searchBatchSize", c.SearchBatchSize)
	v.RequirePositive("maxTokensPerSource", c.MaxTokensPerSource)

	if c.SearchProvider == "tavily" {
		v.RequireNonEmpty("tavilyAPIKey", c.TavilyAPIKey)
	}

	return v.Error()
}

func envStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
