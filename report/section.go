package report

// SourceReference points at a web document that backed a section of the report.
type SourceReference struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Query is a single web search query produced for a section.
type Query struct {
	Query     string `json:"query"`
	Rationale string `json:"rationale,omitempty"`
}

// Section is one titled unit of the final report. Research marks sections that
// require web research; introduction/conclusion style sections are written from
// already-researched material instead.
type Section struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Research    bool              `json:"research"`
	Content     string            `json:"content,omitempty"`
	Sources     []SourceReference `json:"sources,omitempty"`
}

// HasSource reports whether the section already records the given URL.
func (s *Section) HasSource(url string) bool {
	for _, src := range s.Sources {
		if src.URL == url {
			return true
		}
	}
	return false
}

// AddSource appends src unless a source with the same URL is already present.
// Sources are unique by URL within a section; first occurrence wins.
func (s *Section) AddSource(src SourceReference) bool {
	if src.URL == "" || s.HasSource(src.URL) {
		return false
	}
	s.Sources = append(s.Sources, src)
	return true
}

// AddSources inserts every reference, skipping URLs already present, and
// returns how many were actually added.
func (s *Section) AddSources(srcs []SourceReference) int {
	added := 0
	for _, src := range srcs {
		if s.AddSource(src) {
			added++
		}
	}
	return added
}
