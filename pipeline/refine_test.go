package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/sweetpotato0/deepresearch/report"
)

func TestRefineFollowUpQueriesReenterSearch(t *testing.T) {
	client := &stubClient{
		plan:      []report.Section{{Name: "Body", Description: "Findings", Research: true}},
		queries:   []report.Query{{Query: "initial query"}},
		grades:    []string{"fail", "pass"},
		followUps: []report.Query{{Query: "follow-up query"}},
	}
	provider := &stubSearchProvider{}
	p := newTestPipeline(t, client, provider, WithMaxSearchDepth(3))

	st, err := p.Run(context.Background(), "test topic")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !st.IsCompleted("Body") {
		t.Fatal("Expected section completed")
	}

	// The failed grade re-enters at search_web with the follow-up queries;
	// query generation runs only once per section (plus once for planning).
	if client.queryCalls != 2 {
		t.Errorf("Expected 2 query generations (planning + section), got %d", client.queryCalls)
	}
	if client.gradeCalls != 2 {
		t.Errorf("Expected 2 grading passes, got %d", client.gradeCalls)
	}

	// "initial query" hits the provider once (the section pass reuses the
	// planning search from cache); the follow-up issues a fresh invocation.
	invocations := provider.invocations()
	seen := make(map[string]int)
	for _, q := range invocations {
		seen[q]++
	}
	if seen["initial query"] != 1 {
		t.Errorf("Expected 1 provider invocation for initial query, got %d", seen["initial query"])
	}
	if seen["follow-up query"] != 1 {
		t.Errorf("Expected 1 provider invocation for follow-up query, got %d", seen["follow-up query"])
	}
}

func TestRefineMergesSourcesAcrossPasses(t *testing.T) {
	client := &stubClient{
		plan:      []report.Section{{Name: "Body", Description: "Findings", Research: true}},
		queries:   []report.Query{{Query: "first"}},
		grades:    []string{"fail", "pass"},
		followUps: []report.Query{{Query: "second"}},
	}
	p := newTestPipeline(t, client, &stubSearchProvider{}, WithMaxSearchDepth(3))

	st, err := p.Run(context.Background(), "test topic")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var body report.Section
	for _, sec := range st.CompletedSections {
		if sec.Name == "Body" {
			body = sec
		}
	}
	// One distinct URL per query across both passes.
	if len(body.Sources) != 2 {
		t.Fatalf("Expected 2 merged sources, got %d", len(body.Sources))
	}
	if !strings.Contains(st.FinalReport, "## Sources") {
		t.Error("Expected bibliography in final report")
	}
}

func TestSectionDescriptionFallback(t *testing.T) {
	desc := sectionDescription(report.Section{Name: "History", Description: "  "})
	if !strings.Contains(desc, "History") {
		t.Errorf("Expected synthesized description to mention the section name, got %q", desc)
	}

	desc = sectionDescription(report.Section{Name: "History", Description: "The full story"})
	if desc != "The full story" {
		t.Errorf("Expected explicit description preserved, got %q", desc)
	}
}
