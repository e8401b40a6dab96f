package search

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sweetpotato0/deepresearch/report"
)

// ValidateSources filters source references before they are accepted into a
// report. Non-http(s) schemes are always dropped; when ValidateURLs is set a
// lightweight HEAD probe with a short timeout must also succeed. Failures
// never abort the operation, the URL is just excluded.
func (g *Gateway) ValidateSources(ctx context.Context, sources []report.SourceReference) []report.SourceReference {
	valid := make([]report.SourceReference, 0, len(sources))
	for _, src := range sources {
		u, err := url.Parse(src.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			g.logger.Debug("dropping source with invalid scheme", "url", src.URL)
			continue
		}
		if g.cfg.ValidateURLs && !g.probeOK(ctx, src.URL) {
			g.logger.Debug("dropping unreachable source", "url", src.URL)
			continue
		}
		valid = append(valid, src)
	}
	return valid
}

func (g *Gateway) probeOK(ctx context.Context, target string) bool {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	resp, err := g.probe.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}
