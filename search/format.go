package search

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const noResultsMessage = "No valid search results found. Please try different search queries or use a different search API."

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// FormatResults renders deduplicated results into the source block handed to
// the section writer. Raw page content is capped per source by token budget
// so one long page cannot crowd out the rest of the context.
func FormatResults(results []Result, maxTokensPerSource int) string {
	if len(results) == 0 {
		return noResultsMessage
	}

	var b strings.Builder
	b.WriteString("Content from web search:\n")
	for _, r := range results {
		fmt.Fprintf(&b, "\nSource: %s\n===\n", r.Title)
		fmt.Fprintf(&b, "URL: %s\n===\n", r.URL)
		fmt.Fprintf(&b, "Most relevant content from source: %s\n===\n", r.Content)
		if r.RawContent != "" && maxTokensPerSource > 0 {
			raw, truncated := truncateTokens(r.RawContent, maxTokensPerSource)
			suffix := ""
			if truncated {
				suffix = "... [truncated]"
			}
			fmt.Fprintf(&b, "Full source content limited to %d tokens: %s%s\n===\n", maxTokensPerSource, raw, suffix)
		}
	}
	return b.String()
}

// truncateTokens cuts text down to at most max tokens, reporting whether
// anything was removed. When the tokenizer is unavailable it falls back to a
// four-characters-per-token estimate.
func truncateTokens(text string, max int) (string, bool) {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})

	if encoding == nil {
		limit := max * 4
		if len(text) <= limit {
			return text, false
		}
		return text[:limit], true
	}

	tokens := encoding.Encode(text, nil, nil)
	if len(tokens) <= max {
		return text, false
	}
	return encoding.Decode(tokens[:max]), true
}
