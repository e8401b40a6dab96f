package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweetpotato0/deepresearch/errors"
)

// stubProvider counts invocations and serves canned results per query.
type stubProvider struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string][]Result
	fail    map[string]error
}

func newStubProvider() *stubProvider {
	return &stubProvider{
		calls:   make(map[string]int),
		results: make(map[string][]Result),
		fail:    make(map[string]error),
	}
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(ctx context.Context, query string, opts Options) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[query]++
	if err, ok := s.fail[query]; ok {
		return nil, err
	}
	return s.results[query], nil
}

func (s *stubProvider) callCount(query string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[query]
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.BatchDelay = time.Millisecond
	cfg.RetryBaseDelay = time.Millisecond
	cfg.ValidateURLs = false // unit tests use fake URLs that must not be probed
	return cfg
}

func TestGatewayCacheHit(t *testing.T) {
	provider := newStubProvider()
	provider.results["golang"] = []Result{{Title: "Go", URL: "https://go.dev", Content: "go"}}
	gw := NewGateway(provider, fastConfig())

	opts := Options{MaxResults: 3, Topic: "general"}
	if _, err := gw.Search(context.Background(), []string{"golang"}, opts); err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	if _, err := gw.Search(context.Background(), []string{"golang"}, opts); err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if got := provider.callCount("golang"); got != 1 {
		t.Errorf("expected 1 provider invocation, got %d", got)
	}

	// Different params miss the cache.
	opts.MaxResults = 5
	if _, err := gw.Search(context.Background(), []string{"golang"}, opts); err != nil {
		t.Fatalf("third search failed: %v", err)
	}
	if got := provider.callCount("golang"); got != 2 {
		t.Errorf("expected cache miss on changed params, got %d invocations", got)
	}
}

func TestGatewayPartialFailure(t *testing.T) {
	provider := newStubProvider()
	provider.results["good"] = []Result{{Title: "Good", URL: "https://example.com/good", Content: "ok"}}
	provider.fail["bad"] = fmt.Errorf("upstream exploded")
	gw := NewGateway(provider, fastConfig())

	out, err := gw.Search(context.Background(), []string{"good", "bad"}, Options{MaxResults: 3})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(out.Sources) != 1 || out.Sources[0].URL != "https://example.com/good" {
		t.Fatalf("expected the successful query's results, got %+v", out.Sources)
	}
	// Non-rate-limit failures must not be retried.
	if got := provider.callCount("bad"); got != 1 {
		t.Errorf("expected no retry for permanent failure, got %d invocations", got)
	}
}

func TestGatewayAllFailedReturnsNoResultsOutput(t *testing.T) {
	provider := newStubProvider()
	provider.fail["q1"] = fmt.Errorf("boom")
	provider.fail["q2"] = fmt.Errorf("boom")
	gw := NewGateway(provider, fastConfig())

	out, err := gw.Search(context.Background(), []string{"q1", "q2"}, Options{})
	if err != nil {
		t.Fatalf("expected descriptive output instead of error, got %v", err)
	}
	if !strings.Contains(out.Formatted, "No valid search results") {
		t.Errorf("expected no-results message, got %q", out.Formatted)
	}
	if len(out.Sources) != 0 {
		t.Errorf("expected no sources, got %+v", out.Sources)
	}
}

func TestGatewayRetriesRateLimit(t *testing.T) {
	provider := newStubProvider()
	provider.fail["limited"] = fmt.Errorf("429: %w", errors.ErrRateLimited)
	cfg := fastConfig()
	cfg.MaxRetries = 3
	gw := NewGateway(provider, cfg)

	out, err := gw.Search(context.Background(), []string{"limited"}, Options{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if got := provider.callCount("limited"); got != 3 {
		t.Errorf("expected 3 attempts for rate-limited query, got %d", got)
	}
	if !strings.Contains(out.Formatted, "No valid search results") {
		t.Errorf("expected no-results message after exhausted retries")
	}
}

func TestGatewayDeduplicatesAcrossQueries(t *testing.T) {
	provider := newStubProvider()
	shared := Result{Title: "Shared", URL: "https://example.com/shared", Content: "x"}
	provider.results["a"] = []Result{shared, {Title: "A", URL: "https://example.com/a"}}
	provider.results["b"] = []Result{{Title: "B", URL: "https://example.com/b"}, shared}
	gw := NewGateway(provider, fastConfig())

	out, err := gw.Search(context.Background(), []string{"a", "b"}, Options{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(out.Sources) != 3 {
		t.Fatalf("expected 3 unique sources, got %d: %+v", len(out.Sources), out.Sources)
	}
	if out.Sources[0].URL != "https://example.com/shared" {
		t.Errorf("first occurrence should win ordering, got %+v", out.Sources)
	}
	if strings.Count(out.Formatted, "https://example.com/shared") != 1 {
		t.Errorf("shared URL formatted more than once")
	}
}

func TestGatewayEmptyQueries(t *testing.T) {
	gw := NewGateway(newStubProvider(), fastConfig())
	out, err := gw.Search(context.Background(), nil, Options{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out.Formatted, "No valid search results") {
		t.Errorf("expected no-results message for empty query list")
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	_, err := NewProvider("altavista", ProviderConfig{})
	if !errors.Is(err, errors.ErrProviderNotSupported) {
		t.Fatalf("expected ErrProviderNotSupported, got %v", err)
	}
}

func TestNewProviderTavilyRequiresKey(t *testing.T) {
	_, err := NewProvider(ProviderTavily, ProviderConfig{})
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
