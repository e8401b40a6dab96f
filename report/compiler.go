package report

import (
	"fmt"
	"strings"
)

// MergeCompleted folds completed content back into the planned section list by
// name. Sections without a completed counterpart keep their prior content,
// which may be empty. The planned order is preserved regardless of completion
// order.
func MergeCompleted(sections, completed []Section) []Section {
	byName := make(map[string]Section, len(completed))
	for _, sec := range completed {
		if _, ok := byName[sec.Name]; !ok {
			byName[sec.Name] = sec
		}
	}
	merged := make([]Section, len(sections))
	for i, sec := range sections {
		if done, ok := byName[sec.Name]; ok {
			sec.Content = done.Content
			sec.Sources = done.Sources
		}
		merged[i] = sec
	}
	return merged
}

// CollectSources gathers every source across the sections, deduplicated
// globally by URL with first-encounter order preserved.
func CollectSources(sections []Section) []SourceReference {
	seen := make(map[string]struct{})
	var out []SourceReference
	for _, sec := range sections {
		for _, src := range sec.Sources {
			if _, ok := seen[src.URL]; ok {
				continue
			}
			seen[src.URL] = struct{}{}
			out = append(out, src)
		}
	}
	return out
}

// Compile merges completed content into the planned sections and renders the
// final document: section bodies in planned order separated by blank lines,
// followed by a numbered bibliography when any sources exist. Pure function of
// its input; compiling twice yields identical text.
func Compile(sections, completed []Section) string {
	merged := MergeCompleted(sections, completed)

	bodies := make([]string, 0, len(merged))
	for _, sec := range merged {
		bodies = append(bodies, strings.TrimRight(sec.Content, "\n"))
	}
	body := strings.Join(bodies, "\n\n")

	refs := CollectSources(merged)
	if len(refs) == 0 {
		return body
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n\n## Sources\n")
	for i, ref := range refs {
		title := ref.Title
		if title == "" {
			title = ref.URL
		}
		fmt.Fprintf(&b, "\n%d. [%s](%s)", i+1, title, ref.URL)
	}
	return b.String()
}
