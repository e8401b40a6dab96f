package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweetpotato0/deepresearch/message"
	"github.com/sweetpotato0/deepresearch/pkg/telemetry"
	"github.com/sweetpotato0/deepresearch/report"
	"go.opentelemetry.io/otel/attribute"
)

// generateReportPlan produces the section outline for the topic. A small
// planning search runs first so the outline reflects current information;
// feedback from a rejected plan is folded into the re-plan prompt.
func (p *Pipeline) generateReportPlan(ctx context.Context, st *report.ReportState) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "pipeline.generate_report_plan",
		attribute.String("topic", st.Topic),
	)
	defer func() { telemetry.End(span, err) }()

	searchContext, err := p.planningSearch(ctx, st)
	if err != nil {
		return err
	}

	prompt, err := p.prompts.Render(promptReportPlanner, map[string]interface{}{
		"topic":     st.Topic,
		"structure": p.cfg.ReportStructure,
		"context":   searchContext,
		"feedback":  strings.Join(st.FeedbackOnReportPlan, "\n"),
	})
	if err != nil {
		return fmt.Errorf("render planner prompt: %w", err)
	}

	var plan Plan
	msgs := []*message.Message{message.NewMessage(message.RoleUser, prompt)}
	if err = p.planner.GenerateObject(ctx, msgs, &plan); err != nil {
		return fmt.Errorf("generate report plan: %w", err)
	}
	if len(plan.Sections) == 0 {
		p.logger.Warn("planner produced no sections", "topic", st.Topic)
	}

	st.Sections = plan.Sections
	p.logger.Info("report plan generated", "sections", len(st.Sections))
	p.record(ctx, "plan", planSummary(st.Sections))
	return nil
}

// planningSearch gathers broad context for the planner. Failures here are
// recoverable: planning proceeds without search context.
func (p *Pipeline) planningSearch(ctx context.Context, st *report.ReportState) (string, error) {
	prompt, err := p.prompts.Render(promptPlanningQueries, map[string]interface{}{
		"topic":     st.Topic,
		"structure": p.cfg.ReportStructure,
		"count":     p.cfg.NumberOfQueries,
	})
	if err != nil {
		return "", fmt.Errorf("render planning queries prompt: %w", err)
	}

	var queries Queries
	msgs := []*message.Message{message.NewMessage(message.RoleUser, prompt)}
	if err := p.planner.GenerateObject(ctx, msgs, &queries); err != nil {
		return "", fmt.Errorf("generate planning queries: %w", err)
	}
	if len(queries.Queries) == 0 {
		return "", nil
	}

	out, err := p.gateway.Search(ctx, queryStrings(queries.Queries), p.cfg.SearchOptions)
	if err != nil {
		p.logger.Warn("planning search failed, planning without context", "error", err)
		return "", nil
	}
	return out.Formatted, nil
}

func queryStrings(queries []report.Query) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q.Query) != "" {
			out = append(out, q.Query)
		}
	}
	return out
}

func planSummary(sections []report.Section) string {
	var b strings.Builder
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s (research=%t): %s", sec.Name, sec.Research, sec.Description)
	}
	return b.String()
}
