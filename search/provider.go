package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sweetpotato0/deepresearch/errors"
)

// Supported provider names. Requesting anything else is a configuration
// error, not a silent no-op.
const (
	ProviderTavily     = "tavily"
	ProviderDuckDuckGo = "duckduckgo"
)

// Result is one document returned by a search provider.
type Result struct {
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	RawContent string  `json:"raw_content,omitempty"`
}

// Options tunes a single provider query.
type Options struct {
	MaxResults        int
	Topic             string // provider hint: "general" or "news"
	IncludeRawContent bool
}

// Provider executes one search query against an external engine.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, opts Options) ([]Result, error)
}

// ProviderConfig carries credentials and transport for provider construction.
type ProviderConfig struct {
	APIKey     string
	HTTPClient *http.Client
}

// NewProvider selects a provider from the closed supported set by name.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	switch name {
	case ProviderTavily:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("search: tavily requires an API key: %w", errors.ErrInvalidInput)
		}
		return NewTavily(cfg.APIKey, client), nil
	case ProviderDuckDuckGo:
		return NewDuckDuckGo(client), nil
	default:
		return nil, fmt.Errorf("search: provider %q: %w", name, errors.ErrProviderNotSupported)
	}
}
