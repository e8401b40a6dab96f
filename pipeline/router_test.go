package pipeline

import (
	"testing"

	"github.com/sweetpotato0/deepresearch/report"
)

func TestRouteTasksEmptyPlanCompiles(t *testing.T) {
	st := report.NewReportState("topic")

	d := RouteTasks(st)
	if d.Goto != StageCompileFinalReport {
		t.Errorf("Expected route to %s, got %s", StageCompileFinalReport, d.Goto)
	}
	if st.Active != nil {
		t.Error("Expected no active section when compiling")
	}
}

func TestRouteTasksAllCompletedCompiles(t *testing.T) {
	st := report.NewReportState("topic")
	st.Sections = []report.Section{
		{Name: "Introduction"},
		{Name: "Body", Research: true},
	}
	// Completion is name membership only; empty content still counts.
	st.CompleteSection(report.Section{Name: "Introduction"})
	st.CompleteSection(report.Section{Name: "Body"})

	d := RouteTasks(st)
	if d.Goto != StageCompileFinalReport {
		t.Errorf("Expected route to %s, got %s", StageCompileFinalReport, d.Goto)
	}
}

func TestRouteTasksSelectsFirstPendingInPlannedOrder(t *testing.T) {
	st := report.NewReportState("topic")
	st.Sections = []report.Section{
		{Name: "Introduction"},
		{Name: "Research Body", Research: true},
		{Name: "Conclusion"},
	}
	st.CompleteSection(report.Section{Name: "Introduction"})

	d := RouteTasks(st)
	if d.Goto != StageGenerateQueries {
		t.Errorf("Expected research section to route to %s, got %s", StageGenerateQueries, d.Goto)
	}
	if st.Active == nil {
		t.Fatal("Expected active section to be set")
	}
	if st.Active.Section.Name != "Research Body" {
		t.Errorf("Expected Research Body selected, got %s", st.Active.Section.Name)
	}
	if st.Active.SearchIterations != 0 {
		t.Errorf("Expected fresh working area with 0 iterations, got %d", st.Active.SearchIterations)
	}
	if st.Active.Topic != "topic" {
		t.Errorf("Expected topic carried into working area, got %q", st.Active.Topic)
	}
}

func TestRouteTasksResearchSectionBeforeNonResearch(t *testing.T) {
	st := report.NewReportState("topic")
	st.Sections = []report.Section{
		{Name: "Research Body", Research: true},
		{Name: "Conclusion"},
	}

	d := RouteTasks(st)
	if d.Goto != StageGenerateQueries {
		t.Errorf("Expected research section selected first, got route to %s", d.Goto)
	}
	if st.Active.Section.Name != "Research Body" {
		t.Errorf("Expected Research Body, got %s", st.Active.Section.Name)
	}
}

func TestRouteTasksNonResearchGoesToFinalWriting(t *testing.T) {
	st := report.NewReportState("topic")
	st.Sections = []report.Section{
		{Name: "Introduction"},
		{Name: "Body", Research: true},
	}

	d := RouteTasks(st)
	if d.Goto != StageWriteFinalSection {
		t.Errorf("Expected non-research section to route to %s, got %s", StageWriteFinalSection, d.Goto)
	}
	if st.Active.Section.Name != "Introduction" {
		t.Errorf("Expected Introduction, got %s", st.Active.Section.Name)
	}
}

func TestRouteTasksNoPendingDespiteCountMismatchCompiles(t *testing.T) {
	st := report.NewReportState("topic")
	st.Sections = []report.Section{{Name: "Only"}}
	st.CompleteSection(report.Section{Name: "Only"})
	// A stray completion that was never planned must not stall routing.
	st.CompletedSections = append(st.CompletedSections, report.Section{Name: "Stray"})

	// Length check fails (2 != 1) but no planned section is pending.
	d := RouteTasks(st)
	if d.Goto != StageCompileFinalReport {
		t.Errorf("Expected route to %s, got %s", StageCompileFinalReport, d.Goto)
	}
}
