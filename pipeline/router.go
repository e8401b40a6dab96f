package pipeline

import (
	"context"

	"github.com/sweetpotato0/deepresearch/graph"
	"github.com/sweetpotato0/deepresearch/report"
)

// RouteTasks decides, after every completed section, whether to start research
// on the next unfinished section, hand a section to final writing, or proceed
// to compilation. Pure given state: no I/O, no generation calls, so it can be
// property-tested in isolation.
//
// Policy, evaluated in this order:
//  1. empty plan compiles immediately
//  2. every planned section completed by name compiles
//  3. otherwise the first section, in planned order, whose name is absent
//     from the completed set is selected for this pass
//  4. research sections enter the refinement loop with a fresh working area
//  5. non-research sections go to final writing
func RouteTasks(st *report.ReportState) *graph.Directive {
	if len(st.Sections) == 0 {
		return graph.Go(StageCompileFinalReport)
	}
	if len(st.CompletedSections) == len(st.Sections) {
		return graph.Go(StageCompileFinalReport)
	}

	sec, ok := st.NextPending()
	if !ok {
		return graph.Go(StageCompileFinalReport)
	}

	st.Active = &report.SectionState{Topic: st.Topic, Section: sec}
	if sec.Research {
		return graph.Go(StageGenerateQueries)
	}
	return graph.Go(StageWriteFinalSection)
}

func (p *Pipeline) routeTasks(ctx context.Context, st *report.ReportState) (*graph.Directive, error) {
	d := RouteTasks(st)
	if st.Active != nil {
		p.logger.Info("section selected",
			"section", st.Active.Section.Name,
			"research", st.Active.Section.Research,
			"next", d.Goto,
		)
	} else {
		p.logger.Info("routing to compilation", "completed", len(st.CompletedSections))
	}
	return d, nil
}
