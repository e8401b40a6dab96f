package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sweetpotato0/deepresearch/errors"
	"github.com/sweetpotato0/deepresearch/pkg/logging"
	"github.com/sweetpotato0/deepresearch/pkg/telemetry"
	"github.com/sweetpotato0/deepresearch/report"
	"go.opentelemetry.io/otel/attribute"
)

// Config tunes gateway behaviour.
type Config struct {
	BatchSize          int           // queries executed concurrently per batch
	BatchDelay         time.Duration // pause between batches, for provider rate limits
	MaxRetries         int           // attempts per query on rate-limit failures
	RetryBaseDelay     time.Duration // initial backoff interval
	MaxTokensPerSource int           // raw content budget per source when formatting
	ValidateURLs       bool          // probe source URLs before accepting them
	ProbeTimeout       time.Duration // per-URL validation timeout
}

// DefaultConfig returns the gateway defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:          4,
		BatchDelay:         time.Second,
		MaxRetries:         3,
		RetryBaseDelay:     500 * time.Millisecond,
		MaxTokensPerSource: 4000,
		ValidateURLs:       true,
		ProbeTimeout:       3 * time.Second,
	}
}

type cacheKey struct {
	query      string
	maxResults int
	topic      string
	includeRaw bool
}

// Gateway batches queries against one provider, caches responses for the
// lifetime of the process, retries rate-limited queries with jittered
// exponential backoff, and deduplicates results by URL. The cache is shared
// across batches within a run; a miss is always safe, only less efficient.
type Gateway struct {
	provider Provider
	cfg      Config

	mu    sync.Mutex
	cache map[cacheKey][]Result

	probe  *http.Client
	logger *slog.Logger
}

// Output is the result of one gateway call: the formatted search context for
// prompting plus the deduplicated source references behind it.
type Output struct {
	Formatted string
	Sources   []report.SourceReference
}

// NewGateway wraps a provider.
func NewGateway(provider Provider, cfg Config) *Gateway {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultConfig().MaxRetries
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultConfig().RetryBaseDelay
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultConfig().ProbeTimeout
	}
	return &Gateway{
		provider: provider,
		cfg:      cfg,
		cache:    make(map[cacheKey][]Result),
		probe:    &http.Client{Timeout: cfg.ProbeTimeout},
		logger:   logging.WithComponent("search_gateway").With("provider", provider.Name()),
	}
}

type queryOutcome struct {
	query   string
	results []Result
	err     error
}

// Search executes the queries in batches and merges results. A failed query
// yields an error-tagged empty result for that query only; the call errors
// out only on context cancellation. When every query fails or nothing is
// found, the formatted output describes that instead.
func (g *Gateway) Search(ctx context.Context, queries []string, opts Options) (*Output, error) {
	ctx, span := telemetry.StartSpan(ctx, "search.gateway",
		attribute.String("provider", g.provider.Name()),
		attribute.Int("queries", len(queries)),
	)
	var err error
	defer func() { telemetry.End(span, err) }()

	if len(queries) == 0 {
		return &Output{Formatted: noResultsMessage}, nil
	}

	outcomes := make([]queryOutcome, len(queries))
	for start := 0; start < len(queries); start += g.cfg.BatchSize {
		end := start + g.cfg.BatchSize
		if end > len(queries) {
			end = len(queries)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			query := queries[i]
			key := cacheKey{query: query, maxResults: opts.MaxResults, topic: opts.Topic, includeRaw: opts.IncludeRawContent}
			if cached, ok := g.lookup(key); ok {
				g.logger.Debug("cache hit", "query", query)
				outcomes[i] = queryOutcome{query: query, results: cached}
				continue
			}

			wg.Add(1)
			go func(i int, query string, key cacheKey) {
				defer wg.Done()
				results, qerr := g.searchOne(ctx, query, opts)
				if qerr == nil {
					g.store(key, results)
				}
				outcomes[i] = queryOutcome{query: query, results: results, err: qerr}
			}(i, query, key)
		}
		wg.Wait()

		if end < len(queries) && g.cfg.BatchDelay > 0 {
			select {
			case <-time.After(g.cfg.BatchDelay):
			case <-ctx.Done():
				err = ctx.Err()
				return nil, err
			}
		}
	}

	failed := 0
	seen := make(map[string]struct{})
	var unique []Result
	for _, oc := range outcomes {
		if oc.err != nil {
			failed++
			g.logger.Warn("query failed", "query", oc.query, "error", oc.err)
			continue
		}
		for _, r := range oc.results {
			if r.URL == "" {
				continue
			}
			if _, ok := seen[r.URL]; ok {
				continue
			}
			seen[r.URL] = struct{}{}
			unique = append(unique, r)
		}
	}

	if len(unique) == 0 {
		if failed == len(queries) {
			g.logger.Warn("all queries failed", "count", failed)
		}
		return &Output{Formatted: noResultsMessage}, nil
	}

	sources := make([]report.SourceReference, 0, len(unique))
	for _, r := range unique {
		sources = append(sources, report.SourceReference{URL: r.URL, Title: r.Title})
	}
	sources = g.ValidateSources(ctx, sources)

	return &Output{
		Formatted: FormatResults(unique, g.cfg.MaxTokensPerSource),
		Sources:   sources,
	}, nil
}

// searchOne runs a single query, retrying rate-limit failures with
// exponential backoff and jitter. Any other failure is permanent.
func (g *Gateway) searchOne(ctx context.Context, query string, opts Options) ([]Result, error) {
	operation := func() ([]Result, error) {
		results, err := g.provider.Search(ctx, query, opts)
		if err != nil {
			if errors.Is(err, errors.ErrRateLimited) {
				g.logger.Debug("rate limited, backing off", "query", query)
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return results, nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = g.cfg.RetryBaseDelay

	results, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(uint(g.cfg.MaxRetries)),
	)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return results, nil
}

func (g *Gateway) lookup(key cacheKey) ([]Result, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	results, ok := g.cache[key]
	return results, ok
}

func (g *Gateway) store(key cacheKey, results []Result) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache[key] = results
}
