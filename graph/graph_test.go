package graph

import (
	"context"
	"testing"

	"github.com/sweetpotato0/deepresearch/errors"
)

type testState struct {
	visits []string
	count  int
}

func record(name string, next *Directive) StageFunc[*testState] {
	return func(ctx context.Context, s *testState) (*Directive, error) {
		s.visits = append(s.visits, name)
		return next, nil
	}
}

func TestAddNodeEmptyName(t *testing.T) {
	g := NewGraph[*testState]()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected function to panic, but it did not")
		} else {
			if r != "stage name cannot be empty" {
				t.Errorf("Expected panic value to be 'stage name cannot be empty', but got %v", r)
			}
		}
	}()

	g.AddNode("", record("", nil))
}

func TestAddNodeDuplicate(t *testing.T) {
	g := NewGraph[*testState]()
	g.AddNode("dup_stage", record("dup_stage", nil))

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected function to panic, but it did not")
		} else {
			if r != "stage dup_stage already exists" {
				t.Errorf("Expected panic value to be 'stage dup_stage already exists', but got %v", r)
			}
		}
	}()
	g.AddNode("dup_stage", record("dup_stage", nil))
}

func TestSetEntryPointNotFound(t *testing.T) {
	g := NewGraph[*testState]()

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected function to panic, but it did not")
		} else {
			if r != "stage nonexistent not found" {
				t.Errorf("Expected panic value to be 'stage nonexistent not found', but got %v", r)
			}
		}
	}()

	g.SetEntryPoint("nonexistent")
}

func TestRunWithoutEntryPoint(t *testing.T) {
	g := NewGraph[*testState]()
	g.AddNode("only", record("only", nil))

	if _, err := g.Run(context.Background(), &testState{}); err == nil {
		t.Fatalf("expected error for missing entry point")
	}
}

func TestRunLinearGraph(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("first", record("first", nil)).
		AddNode("second", record("second", nil)).
		AddNode("last", record("last", nil)).
		AddEdge("first", "second").
		AddEdge("second", "last").
		SetEntryPoint("first").
		Build()

	state, err := g.Run(context.Background(), &testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	want := []string{"first", "second", "last"}
	if len(state.visits) != len(want) {
		t.Fatalf("expected %v visits, got %v", want, state.visits)
	}
	for i, name := range want {
		if state.visits[i] != name {
			t.Errorf("visit %d: expected %s, got %s", i, name, state.visits[i])
		}
	}
}

func TestDirectiveOverridesStaticEdge(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("first", record("first", Go("third"))).
		AddNode("second", record("second", nil)).
		AddNode("third", record("third", nil)).
		AddEdge("first", "second").
		SetEntryPoint("first").
		Build()

	state, err := g.Run(context.Background(), &testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(state.visits) != 2 || state.visits[1] != "third" {
		t.Fatalf("expected directive to route to third, got %v", state.visits)
	}
}

func TestConditionalEdgeBeatsDirective(t *testing.T) {
	// The stage says End, but a conditional edge registered on it reroutes.
	g := NewBuilder[*testState]().
		AddNode("worker", record("worker", Finish())).
		AddNode("gather", record("gather", nil)).
		AddConditionalEdge("worker", "gather", func(s *testState, d *Directive) bool {
			return d != nil && d.Goto == End
		}).
		SetEntryPoint("worker").
		Build()

	state, err := g.Run(context.Background(), &testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(state.visits) != 2 || state.visits[1] != "gather" {
		t.Fatalf("expected conditional reroute to gather, got %v", state.visits)
	}
}

func TestConditionalEdgeFirstMatchWins(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("branch", record("branch", nil)).
		AddNode("a", record("a", nil)).
		AddNode("b", record("b", nil)).
		AddConditionalEdge("branch", "a", func(s *testState, d *Directive) bool { return true }).
		AddConditionalEdge("branch", "b", func(s *testState, d *Directive) bool { return true }).
		SetEntryPoint("branch").
		Build()

	state, err := g.Run(context.Background(), &testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if state.visits[1] != "a" {
		t.Fatalf("expected first registered conditional edge to win, got %v", state.visits)
	}
}

func TestEndDirectiveTerminates(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("only", record("only", Finish())).
		AddNode("never", record("never", nil)).
		AddEdge("only", "never").
		SetEntryPoint("only").
		Build()

	// Conditional edges would be checked first, but there are none, so the
	// literal End goto halts the run before the static edge is considered.
	state, err := g.Run(context.Background(), &testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(state.visits) != 1 {
		t.Fatalf("expected run to stop after only, got %v", state.visits)
	}
}

func TestTerminalStageWithoutEdge(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("terminal", record("terminal", nil)).
		SetEntryPoint("terminal").
		Build()

	state, err := g.Run(context.Background(), &testState{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(state.visits) != 1 {
		t.Fatalf("expected single visit, got %v", state.visits)
	}
}

func TestUnknownNextStageFails(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("first", record("first", Go("missing"))).
		SetEntryPoint("first").
		Build()

	_, err := g.Run(context.Background(), &testState{})
	if !errors.Is(err, errors.ErrStageNotFound) {
		t.Fatalf("expected ErrStageNotFound, got %v", err)
	}
}

func TestMaxStepsBound(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("loop", func(ctx context.Context, s *testState) (*Directive, error) {
			s.count++
			return Go("loop"), nil
		}).
		SetEntryPoint("loop").
		SetMaxSteps(7).
		Build()

	state, err := g.Run(context.Background(), &testState{})
	if !errors.Is(err, errors.ErrMaxStepsExceeded) {
		t.Fatalf("expected ErrMaxStepsExceeded, got %v", err)
	}
	if state.count != 7 {
		t.Errorf("expected 7 executions before the bound tripped, got %d", state.count)
	}
}

func TestStageErrorPropagates(t *testing.T) {
	g := NewBuilder[*testState]().
		AddNode("boom", func(ctx context.Context, s *testState) (*Directive, error) {
			return nil, errors.ErrGeneration
		}).
		SetEntryPoint("boom").
		Build()

	_, err := g.Run(context.Background(), &testState{})
	if !errors.Is(err, errors.ErrGeneration) {
		t.Fatalf("expected wrapped stage error, got %v", err)
	}
}
