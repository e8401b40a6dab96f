package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sweetpotato0/deepresearch/graph"
	"github.com/sweetpotato0/deepresearch/memory"
	"github.com/sweetpotato0/deepresearch/model"
	"github.com/sweetpotato0/deepresearch/pkg/logging"
	"github.com/sweetpotato0/deepresearch/pkg/telemetry"
	"github.com/sweetpotato0/deepresearch/prompt"
	"github.com/sweetpotato0/deepresearch/report"
	"github.com/sweetpotato0/deepresearch/search"
	"go.opentelemetry.io/otel/attribute"
)

// Clients groups the model clients used by the different pipeline stages.
type Clients struct {
	Default model.Client
	Planner model.Client
	Writer  model.Client
}

// Pipeline wires the report workflow together. Internally it manages the
// planning stage, the per-section refinement loop (query generation, search,
// write, grade), final-section writing for non-research sections, and
// compilation, all threaded through a single workflow graph over the shared
// report state.
type Pipeline struct {
	cfg     *Config
	planner model.Client
	writer  model.Client
	gateway *search.Gateway
	prompts *prompt.Manager
	store   memory.Store
	graph   *graph.Graph[*report.ReportState]
	logger  *slog.Logger
}

// New creates a fully wired report pipeline.
func New(clients Clients, gateway *search.Gateway, opts ...Option) (*Pipeline, error) {
	cfg := applyOptions(opts)

	plannerLLM := pickClient(clients.Planner, clients.Default)
	writerLLM := pickClient(clients.Writer, clients.Default)
	if plannerLLM == nil {
		return nil, fmt.Errorf("planner client is required")
	}
	if writerLLM == nil {
		return nil, fmt.Errorf("writer client is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("search gateway is required")
	}

	p := &Pipeline{
		cfg:     cfg,
		planner: plannerLLM,
		writer:  writerLLM,
		gateway: gateway,
		prompts: newPromptManager(),
		store:   cfg.store,
		logger:  logging.WithComponent("report_pipeline").With("pipeline", cfg.Name),
	}

	builder := graph.NewBuilder[*report.ReportState]().
		AddStateNode(StageGenerateReportPlan, p.generateReportPlan).
		AddNode(StageRouteTasks, p.routeTasks).
		AddStateNode(StageGenerateQueries, p.generateQueries).
		AddStateNode(StageSearchWeb, p.searchWeb).
		AddNode(StageWriteSection, p.writeSection).
		AddStateNode(StageGatherCompletedSections, p.gatherCompletedSections).
		AddStateNode(StageWriteFinalSection, p.writeFinalSection).
		AddStateNode(StageCompileFinalReport, p.compileFinalReport).
		AddEdge(StageGenerateReportPlan, StageRouteTasks).
		AddEdge(StageGenerateQueries, StageSearchWeb).
		AddEdge(StageSearchWeb, StageWriteSection).
		// A finished section leaves the refinement loop through the gather
		// stage rather than ending the run; the follow-up directive back to
		// search_web falls through the predicate untouched.
		AddConditionalEdge(StageWriteSection, StageGatherCompletedSections,
			func(st *report.ReportState, d *graph.Directive) bool {
				return d != nil && d.Goto == graph.End
			}).
		AddEdge(StageGatherCompletedSections, StageRouteTasks).
		AddEdge(StageWriteFinalSection, StageRouteTasks).
		SetEntryPoint(StageGenerateReportPlan).
		SetMaxSteps(cfg.GraphMaxSteps)

	p.graph = builder.Build()
	p.logger.Info("report pipeline initialised",
		"number_of_queries", cfg.NumberOfQueries,
		"max_search_depth", cfg.MaxSearchDepth,
		"graph_max_steps", cfg.GraphMaxSteps,
	)
	return p, nil
}

func pickClient(primary, fallback model.Client) model.Client {
	if primary != nil {
		return primary
	}
	return fallback
}

// Run generates a complete report for the topic. Optional feedback strings
// from a previously rejected plan are folded into the planning prompt.
func (p *Pipeline) Run(ctx context.Context, topic string, feedback ...string) (*report.ReportState, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}

	ctx, span := telemetry.StartSpan(ctx, "pipeline.run",
		attribute.String("topic", topic),
	)
	var err error
	defer func() { telemetry.End(span, err) }()

	p.logger.Info("report run started", "topic", topic)
	st := report.NewReportState(strings.TrimSpace(topic))
	st.FeedbackOnReportPlan = feedback

	st, err = p.graph.Run(ctx, st)
	if err != nil {
		return nil, err
	}

	p.logger.Info("report run completed",
		"topic", topic,
		"sections", len(st.Sections),
		"report_length", len(st.FinalReport),
	)
	return st, nil
}

// record writes a run event to the configured memory store. The store is an
// opaque context recorder; failures are logged, never fatal.
func (p *Pipeline) record(ctx context.Context, kind, content string) {
	if p.store == nil || p.cfg.ThreadID == "" || content == "" {
		return
	}
	if err := p.store.Append(ctx, memory.NewEntry(p.cfg.ThreadID, kind, content)); err != nil {
		p.logger.Warn("failed to record run event", "kind", kind, "error", err)
	}
}
