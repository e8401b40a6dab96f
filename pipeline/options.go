package pipeline

import (
	"strings"

	"github.com/sweetpotato0/deepresearch/config"
	"github.com/sweetpotato0/deepresearch/memory"
	"github.com/sweetpotato0/deepresearch/search"
)

// Config controls behaviour of the report pipeline. It groups the research
// loop bounds, the search parameters forwarded to the gateway, and the
// optional thread recording knobs so callers can construct reproducible runs
// from a single struct.
type Config struct {
	Name            string // Logical name for tracing/logging
	NumberOfQueries int    // Queries generated per research pass
	MaxSearchDepth  int    // Upper bound on search passes per section
	ReportStructure string // Organization hint handed to the planner
	GraphMaxSteps   int    // Safety guard for graph execution

	SearchOptions search.Options // Forwarded to every gateway call

	ThreadID string // Thread under which runs are recorded, when a store is set

	store memory.Store // Optional run recorder
}

// Option customises the pipeline configuration.
type Option func(*Config)

// WithName overrides the logical pipeline name used in logs and spans.
func WithName(name string) Option {
	return func(cfg *Config) {
		if strings.TrimSpace(name) != "" {
			cfg.Name = name
		}
	}
}

// WithNumberOfQueries sets how many search queries are generated per research pass.
func WithNumberOfQueries(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.NumberOfQueries = n
		}
	}
}

// WithMaxSearchDepth bounds how many search passes a single section may consume.
func WithMaxSearchDepth(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxSearchDepth = n
		}
	}
}

// WithReportStructure overrides the report organization handed to the planner.
func WithReportStructure(structure string) Option {
	return func(cfg *Config) {
		if strings.TrimSpace(structure) != "" {
			cfg.ReportStructure = structure
		}
	}
}

// WithSearchOptions sets the provider options forwarded to every gateway call.
func WithSearchOptions(opts search.Options) Option {
	return func(cfg *Config) {
		cfg.SearchOptions = opts
	}
}

// WithGraphMaxSteps tweaks the safety guard for graph traversal.
func WithGraphMaxSteps(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.GraphMaxSteps = n
		}
	}
}

// WithMemory records planning and completion events to the store under the
// given thread. The store is an opaque context recorder; its failures are
// logged, never fatal.
func WithMemory(store memory.Store, threadID string) Option {
	return func(cfg *Config) {
		if store != nil && threadID != "" {
			cfg.store = store
			cfg.ThreadID = threadID
		}
	}
}

// FromConfig applies the process-level configuration loaded from the
// environment.
func FromConfig(c *config.Config) Option {
	return func(cfg *Config) {
		if c == nil {
			return
		}
		if c.NumberOfQueries > 0 {
			cfg.NumberOfQueries = c.NumberOfQueries
		}
		if c.MaxSearchDepth > 0 {
			cfg.MaxSearchDepth = c.MaxSearchDepth
		}
		if strings.TrimSpace(c.ReportStructure) != "" {
			cfg.ReportStructure = c.ReportStructure
		}
		cfg.SearchOptions = search.Options{
			MaxResults:        c.SearchMaxResults,
			Topic:             "general",
			IncludeRawContent: c.SearchIncludeRaw,
		}
		if c.ThreadID != "" {
			cfg.ThreadID = c.ThreadID
		}
	}
}

func defaultPipelineConfig() *Config {
	return &Config{
		Name:            "deepresearch",
		NumberOfQueries: 2,
		MaxSearchDepth:  2,
		ReportStructure: config.DefaultReportStructure,
		GraphMaxSteps:   100,
		SearchOptions: search.Options{
			MaxResults:        5,
			Topic:             "general",
			IncludeRawContent: true,
		},
	}
}

func applyOptions(opts []Option) *Config {
	cfg := defaultPipelineConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
