package graph

import "context"

// Builder helps build graphs fluently.
type Builder[S any] struct {
	graph *Graph[S]
}

// NewBuilder creates a new graph builder.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{graph: NewGraph[S]()}
}

// AddNode registers a named stage.
func (b *Builder[S]) AddNode(name string, fn StageFunc[S]) *Builder[S] {
	b.graph.AddNode(name, fn)
	return b
}

// AddStateNode registers a stage that only mutates state and always follows
// its static edge.
func (b *Builder[S]) AddStateNode(name string, fn func(ctx context.Context, state S) error) *Builder[S] {
	b.graph.AddNode(name, func(ctx context.Context, state S) (*Directive, error) {
		return nil, fn(ctx, state)
	})
	return b
}

// AddEdge connects two stages with a static edge.
func (b *Builder[S]) AddEdge(from, to string) *Builder[S] {
	b.graph.AddEdge(from, to)
	return b
}

// AddConditionalEdge connects two stages with a guarded edge. First
// registered match wins.
func (b *Builder[S]) AddConditionalEdge(from, to string, pred Predicate[S]) *Builder[S] {
	b.graph.AddConditionalEdge(from, to, pred)
	return b
}

// SetEntryPoint sets the stage a run starts from.
func (b *Builder[S]) SetEntryPoint(name string) *Builder[S] {
	b.graph.SetEntryPoint(name)
	return b
}

// SetMaxSteps overrides the step-count safety bound.
func (b *Builder[S]) SetMaxSteps(n int) *Builder[S] {
	b.graph.SetMaxSteps(n)
	return b
}

// Build returns the constructed graph.
func (b *Builder[S]) Build() *Graph[S] {
	return b.graph
}
