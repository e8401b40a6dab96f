package report

import "regexp"

var markdownLinkRe = regexp.MustCompile(`\[([^\]]*)\]\((https?://[^)\s]+)\)`)

// ExtractLinks scans markdown content for inline link syntax and returns the
// referenced sources in order of appearance, deduplicated by URL.
func ExtractLinks(content string) []SourceReference {
	matches := markdownLinkRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	refs := make([]SourceReference, 0, len(matches))
	for _, m := range matches {
		url := m[2]
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		refs = append(refs, SourceReference{URL: url, Title: m[1]})
	}
	return refs
}

// UnknownLinks returns the extracted links whose URLs are not part of the
// known valid source list.
func UnknownLinks(content string, valid []SourceReference) []SourceReference {
	known := make(map[string]struct{}, len(valid))
	for _, src := range valid {
		known[src.URL] = struct{}{}
	}
	var unknown []SourceReference
	for _, ref := range ExtractLinks(content) {
		if _, ok := known[ref.URL]; !ok {
			unknown = append(unknown, ref)
		}
	}
	return unknown
}
