package graph

import (
	"context"
	"fmt"

	"github.com/sweetpotato0/deepresearch/errors"
)

// End is the reserved stage name a directive uses to leave the graph. What
// "leaving" means depends on wiring: a conditional edge registered on the
// current stage may reroute an End directive (e.g. "this section is finished,
// go gather results"), and only an unrerouted End terminates the run.
const End = "END"

// Directive is a stage's explicit instruction for which stage runs next.
// Stages mutate the shared state in place before returning, so the directive
// only carries navigation.
type Directive struct {
	Goto string
}

// Go builds a directive pointing at the named stage.
func Go(stage string) *Directive {
	return &Directive{Goto: stage}
}

// Finish builds a directive that ends the current cycle.
func Finish() *Directive {
	return &Directive{Goto: End}
}

// StageFunc is one named unit of work. It mutates state in place and returns
// either a directive choosing the next stage or nil to follow the static edge
// registered for the stage.
type StageFunc[S any] func(ctx context.Context, state S) (*Directive, error)

// Predicate guards a conditional edge. It sees the state after the stage ran
// plus the directive the stage returned (nil when the stage returned none).
type Predicate[S any] func(state S, d *Directive) bool

type conditionalEdge[S any] struct {
	to   string
	pred Predicate[S]
}

type stage[S any] struct {
	name string
	fn   StageFunc[S]
	// next is the single static edge; empty means the stage is terminal
	// unless a directive or conditional edge says otherwise.
	next         string
	conditionals []conditionalEdge[S]
}

// Graph is a workflow over a single shared state value. Stages execute
// strictly sequentially; the graph never runs two stages concurrently for the
// same state.
type Graph[S any] struct {
	stages   map[string]*stage[S]
	entry    string
	maxSteps int
}

// NewGraph creates an empty graph with a default step bound.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		stages:   make(map[string]*stage[S]),
		maxSteps: 100,
	}
}

// AddNode registers a named stage. Duplicate or empty names are construction
// bugs and panic, matching the fatal classification for structural errors.
func (g *Graph[S]) AddNode(name string, fn StageFunc[S]) {
	if name == "" {
		panic("stage name cannot be empty")
	}
	if name == End {
		panic(fmt.Sprintf("stage name %s is reserved", End))
	}
	if fn == nil {
		panic(fmt.Sprintf("stage %s must have a non-nil function", name))
	}
	if _, exists := g.stages[name]; exists {
		panic(fmt.Sprintf("stage %s already exists", name))
	}
	g.stages[name] = &stage[S]{name: name, fn: fn}
}

// AddEdge registers the single static edge out of from.
func (g *Graph[S]) AddEdge(from, to string) {
	s, exists := g.stages[from]
	if !exists {
		panic(fmt.Sprintf("stage %s not found", from))
	}
	if s.next != "" {
		panic(fmt.Sprintf("stage %s already has an edge to %s", from, s.next))
	}
	s.next = to
}

// AddConditionalEdge registers a guarded edge out of from. Conditional edges
// are evaluated in registration order and the first match wins; this ordering
// is load-bearing for branch selection and must not be reordered.
func (g *Graph[S]) AddConditionalEdge(from, to string, pred Predicate[S]) {
	s, exists := g.stages[from]
	if !exists {
		panic(fmt.Sprintf("stage %s not found", from))
	}
	if pred == nil {
		panic(fmt.Sprintf("conditional edge %s -> %s must have a predicate", from, to))
	}
	s.conditionals = append(s.conditionals, conditionalEdge[S]{to: to, pred: pred})
}

// SetEntryPoint sets the stage a run starts from.
func (g *Graph[S]) SetEntryPoint(name string) {
	if _, exists := g.stages[name]; !exists {
		panic(fmt.Sprintf("stage %s not found", name))
	}
	g.entry = name
}

// SetMaxSteps overrides the step-count safety bound.
func (g *Graph[S]) SetMaxSteps(n int) {
	if n > 0 {
		g.maxSteps = n
	}
}

// Run drives the graph from the entry point until a stage terminates the
// workflow, the step bound trips, or a stage fails. The state value is
// returned as-is on success; it was mutated in place throughout.
func (g *Graph[S]) Run(ctx context.Context, state S) (S, error) {
	if g.entry == "" {
		return state, fmt.Errorf("graph: entry point not set: %w", errors.ErrInvalidInput)
	}

	current := g.entry
	for steps := 0; ; steps++ {
		if steps >= g.maxSteps {
			return state, fmt.Errorf("graph: step %d at stage %s: %w", steps, current, errors.ErrMaxStepsExceeded)
		}

		s, exists := g.stages[current]
		if !exists {
			return state, fmt.Errorf("graph: stage %s: %w", current, errors.ErrStageNotFound)
		}

		d, err := s.fn(ctx, state)
		if err != nil {
			return state, fmt.Errorf("graph: stage %s: %w", current, err)
		}

		next, terminal := g.resolveNext(s, state, d)
		if terminal {
			return state, nil
		}
		if _, exists := g.stages[next]; !exists {
			return state, fmt.Errorf("graph: stage %s routed to %s: %w", current, next, errors.ErrStageNotFound)
		}
		current = next
	}
}

// resolveNext applies the tie-break rules: conditional edges first in
// registration order, then the directive's literal goto, then the static
// edge. An unrerouted End directive or a plain result on a stage without an
// outgoing edge terminates the run.
func (g *Graph[S]) resolveNext(s *stage[S], state S, d *Directive) (string, bool) {
	for _, ce := range s.conditionals {
		if ce.pred(state, d) {
			if ce.to == End {
				return "", true
			}
			return ce.to, false
		}
	}
	if d != nil && d.Goto != "" {
		if d.Goto == End {
			return "", true
		}
		return d.Goto, false
	}
	if s.next == "" {
		return "", true
	}
	if s.next == End {
		return "", true
	}
	return s.next, false
}
