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

// gatherCompletedSections formats the completed researched sections into the
// context that final (non-research) section writing draws from. Recomputed
// after every researched section so late completions are visible.
func (p *Pipeline) gatherCompletedSections(ctx context.Context, st *report.ReportState) error {
	var b strings.Builder
	for _, sec := range st.CompletedSections {
		if !sec.Research {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(sec.Content)
	}
	st.ReportSectionsFromResearch = b.String()
	p.logger.Debug("completed sections gathered", "length", b.Len())
	return nil
}

// writeFinalSection writes a non-research section (introduction, conclusion)
// from the accumulated research text.
func (p *Pipeline) writeFinalSection(ctx context.Context, st *report.ReportState) (err error) {
	if st.Active == nil {
		return fmt.Errorf("write_final_section: no active section")
	}
	ctx, span := telemetry.StartSpan(ctx, "pipeline.write_final_section",
		attribute.String("section", st.Active.Section.Name),
	)
	defer func() { telemetry.End(span, err) }()

	prompt, err := p.prompts.Render(promptFinalSectionWriter, map[string]interface{}{
		"topic":       st.Active.Topic,
		"name":        st.Active.Section.Name,
		"description": sectionDescription(st.Active.Section),
		"context":     st.ReportSectionsFromResearch,
	})
	if err != nil {
		return fmt.Errorf("render final section writer prompt: %w", err)
	}

	msgs := []*message.Message{message.NewMessage(message.RoleUser, prompt)}
	content, err := p.writer.Generate(ctx, msgs)
	if err != nil {
		return fmt.Errorf("write final section %s: %w", st.Active.Section.Name, err)
	}

	st.Active.Section.Content = content
	st.CompleteSection(st.Active.Section)
	p.record(ctx, "section", st.Active.Section.Name+"\n\n"+content)
	p.logger.Info("final section written", "section", st.Active.Section.Name)
	st.Active = nil
	return nil
}

// compileFinalReport renders the final document: section bodies in planned
// order plus the deduplicated bibliography. Terminal stage of the graph.
func (p *Pipeline) compileFinalReport(ctx context.Context, st *report.ReportState) error {
	st.FinalReport = report.Compile(st.Sections, st.CompletedSections)
	p.logger.Info("final report compiled",
		"sections", len(st.Sections),
		"length", len(st.FinalReport),
	)
	p.record(ctx, "report", st.FinalReport)
	return nil
}
