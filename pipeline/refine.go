package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweetpotato0/deepresearch/graph"
	"github.com/sweetpotato0/deepresearch/message"
	"github.com/sweetpotato0/deepresearch/pkg/telemetry"
	"github.com/sweetpotato0/deepresearch/report"
	"go.opentelemetry.io/otel/attribute"
)

// generateQueries asks the writer model for the initial search queries of the
// active section. Follow-up passes bypass this stage: the grader's queries
// re-enter at search_web directly.
func (p *Pipeline) generateQueries(ctx context.Context, st *report.ReportState) (err error) {
	if st.Active == nil {
		return fmt.Errorf("generate_queries: no active section")
	}
	ctx, span := telemetry.StartSpan(ctx, "pipeline.generate_queries",
		attribute.String("section", st.Active.Section.Name),
	)
	defer func() { telemetry.End(span, err) }()

	prompt, err := p.prompts.Render(promptQueryWriter, map[string]interface{}{
		"topic":       st.Active.Topic,
		"name":        st.Active.Section.Name,
		"description": sectionDescription(st.Active.Section),
		"count":       p.cfg.NumberOfQueries,
	})
	if err != nil {
		return fmt.Errorf("render query writer prompt: %w", err)
	}

	var queries Queries
	msgs := []*message.Message{message.NewMessage(message.RoleUser, prompt)}
	if err = p.writer.GenerateObject(ctx, msgs, &queries); err != nil {
		return fmt.Errorf("generate queries for section %s: %w", st.Active.Section.Name, err)
	}

	st.Active.SearchQueries = queries.Queries
	p.logger.Debug("queries generated", "section", st.Active.Section.Name, "count", len(queries.Queries))
	return nil
}

// searchWeb executes the working queries through the gateway, merges new
// sources into the section (URLs already present are skipped), and counts the
// pass against the section's search budget.
func (p *Pipeline) searchWeb(ctx context.Context, st *report.ReportState) (err error) {
	if st.Active == nil {
		return fmt.Errorf("search_web: no active section")
	}
	ctx, span := telemetry.StartSpan(ctx, "pipeline.search_web",
		attribute.String("section", st.Active.Section.Name),
		attribute.Int("iteration", st.Active.SearchIterations),
	)
	defer func() { telemetry.End(span, err) }()

	out, err := p.gateway.Search(ctx, queryStrings(st.Active.SearchQueries), p.cfg.SearchOptions)
	if err != nil {
		return fmt.Errorf("search for section %s: %w", st.Active.Section.Name, err)
	}

	added := st.Active.Section.AddSources(out.Sources)
	st.Active.SourceStr = out.Formatted
	st.Active.SearchIterations++
	p.logger.Info("section search completed",
		"section", st.Active.Section.Name,
		"iteration", st.Active.SearchIterations,
		"sources_added", added,
	)
	return nil
}

// writeSection drafts the active section from the gathered sources, then
// grades the draft. A pass or an exhausted search budget completes the
// section; a fail inside budget re-enters search_web with the grader's
// follow-up queries.
func (p *Pipeline) writeSection(ctx context.Context, st *report.ReportState) (d *graph.Directive, err error) {
	if st.Active == nil {
		return nil, fmt.Errorf("write_section: no active section")
	}
	ctx, span := telemetry.StartSpan(ctx, "pipeline.write_section",
		attribute.String("section", st.Active.Section.Name),
		attribute.Int("iteration", st.Active.SearchIterations),
	)
	defer func() { telemetry.End(span, err) }()

	prompt, err := p.prompts.Render(promptSectionWriter, map[string]interface{}{
		"topic":       st.Active.Topic,
		"name":        st.Active.Section.Name,
		"description": sectionDescription(st.Active.Section),
		"content":     st.Active.Section.Content,
		"sources":     st.Active.SourceStr,
	})
	if err != nil {
		return nil, fmt.Errorf("render section writer prompt: %w", err)
	}

	msgs := []*message.Message{message.NewMessage(message.RoleUser, prompt)}
	content, err := p.writer.Generate(ctx, msgs)
	if err != nil {
		return nil, fmt.Errorf("write section %s: %w", st.Active.Section.Name, err)
	}
	st.Active.Section.Content = content

	for _, ref := range report.UnknownLinks(content, st.Active.Section.Sources) {
		p.logger.Warn("section cites unknown source",
			"section", st.Active.Section.Name,
			"url", ref.URL,
		)
	}

	grade, err := p.gradeSection(ctx, st.Active)
	if err != nil {
		return nil, err
	}

	if grade.Pass() || st.Active.SearchIterations >= p.cfg.MaxSearchDepth {
		p.logger.Info("section completed",
			"section", st.Active.Section.Name,
			"grade", grade.Grade,
			"iterations", st.Active.SearchIterations,
		)
		st.CompleteSection(st.Active.Section)
		p.record(ctx, "section", st.Active.Section.Name+"\n\n"+st.Active.Section.Content)
		st.Active = nil
		return graph.Finish(), nil
	}

	p.logger.Info("section failed grading, searching again",
		"section", st.Active.Section.Name,
		"iterations", st.Active.SearchIterations,
		"follow_ups", len(grade.FollowUpQueries),
	)
	if len(grade.FollowUpQueries) > 0 {
		st.Active.SearchQueries = grade.FollowUpQueries
	}
	return graph.Go(StageSearchWeb), nil
}

func (p *Pipeline) gradeSection(ctx context.Context, sec *report.SectionState) (*Grade, error) {
	prompt, err := p.prompts.Render(promptSectionGrader, map[string]interface{}{
		"topic":       sec.Topic,
		"description": sectionDescription(sec.Section),
		"content":     sec.Section.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("render grader prompt: %w", err)
	}

	var grade Grade
	msgs := []*message.Message{message.NewMessage(message.RoleUser, prompt)}
	if err := p.writer.GenerateObject(ctx, msgs, &grade); err != nil {
		return nil, fmt.Errorf("grade section %s: %w", sec.Section.Name, err)
	}
	return &grade, nil
}

// sectionDescription falls back to a description synthesized from the name
// when the planner left it empty.
func sectionDescription(sec report.Section) string {
	if strings.TrimSpace(sec.Description) != "" {
		return sec.Description
	}
	return fmt.Sprintf("An overview of %s.", sec.Name)
}
