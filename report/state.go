package report

// ReportState is the shared state threaded through the workflow graph. The
// graph owns it for the duration of a run; whichever stage currently holds
// control mutates it in place.
type ReportState struct {
	Topic                      string    `json:"topic"`
	FeedbackOnReportPlan       []string  `json:"feedback_on_report_plan,omitempty"`
	Sections                   []Section `json:"sections"`
	CompletedSections          []Section `json:"completed_sections"`
	ReportSectionsFromResearch string    `json:"report_sections_from_research,omitempty"`
	FinalReport                string    `json:"final_report,omitempty"`

	// Active holds the working data of the section currently inside the
	// refinement loop. It is nil outside that loop; sections are processed
	// one at a time.
	Active *SectionState `json:"-"`
}

// SectionState is the per-section working area during refinement. It is
// created fresh when a section enters research and discarded once the section
// lands in CompletedSections.
type SectionState struct {
	Topic            string  `json:"topic"`
	Section          Section `json:"section"`
	SearchIterations int     `json:"search_iterations"`
	SearchQueries    []Query `json:"search_queries,omitempty"`
	SourceStr        string  `json:"source_str,omitempty"`
}

// NewReportState builds a fresh state for one run.
func NewReportState(topic string) *ReportState {
	return &ReportState{Topic: topic}
}

// IsCompleted reports whether a section of the given name has been recorded
// as completed. Completion is purely name membership; content may be empty.
func (st *ReportState) IsCompleted(name string) bool {
	for _, sec := range st.CompletedSections {
		if sec.Name == name {
			return true
		}
	}
	return false
}

// CompleteSection records sec as completed. CompletedSections never holds two
// entries with the same name: a second completion replaces the first.
func (st *ReportState) CompleteSection(sec Section) {
	for i, existing := range st.CompletedSections {
		if existing.Name == sec.Name {
			st.CompletedSections[i] = sec
			return
		}
	}
	st.CompletedSections = append(st.CompletedSections, sec)
}

// NextPending returns the first section, in canonical order, whose name is
// absent from CompletedSections.
func (st *ReportState) NextPending() (Section, bool) {
	for _, sec := range st.Sections {
		if !st.IsCompleted(sec.Name) {
			return sec, true
		}
	}
	return Section{}, false
}

// AllCompleted reports whether every planned section is completed by name.
func (st *ReportState) AllCompleted() bool {
	return len(st.CompletedSections) == len(st.Sections)
}
