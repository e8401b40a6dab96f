package pipeline

import (
	"strings"

	"github.com/sweetpotato0/deepresearch/report"
)

// Stage names registered in the workflow graph.
const (
	StageGenerateReportPlan      = "generate_report_plan"
	StageRouteTasks              = "route_tasks"
	StageGenerateQueries         = "generate_queries"
	StageSearchWeb               = "search_web"
	StageWriteSection            = "write_section"
	StageGatherCompletedSections = "gather_completed_sections"
	StageWriteFinalSection       = "write_final_section"
	StageCompileFinalReport      = "compile_final_report"
)

// Queries is the structured output schema for query generation.
type Queries struct {
	Queries []report.Query `json:"queries"`
}

// Plan is the structured output schema for report planning.
type Plan struct {
	Sections []report.Section `json:"sections"`
}

// Grade is the structured verdict on a written section. On fail the grader
// may suggest follow-up queries that re-enter the search stage directly.
type Grade struct {
	Grade           string         `json:"grade"`
	FollowUpQueries []report.Query `json:"follow_up_queries,omitempty"`
}

// Pass reports whether the grade is a pass verdict.
func (g *Grade) Pass() bool {
	return strings.EqualFold(strings.TrimSpace(g.Grade), "pass")
}
