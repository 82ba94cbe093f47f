package graph

import (
	"testing"
)

func TestDescribeMarksCycleEdges(t *testing.T) {
	g := Build(unitMap(
		unit("a", "b"),
		unit("b", "a"),
		unit("main", "a"),
	))

	cycles := g.FindCycles(20)
	desc := g.Describe(cycles)

	if len(desc.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(desc.Nodes))
	}
	if len(desc.Edges) != 3 {
		t.Fatalf("Expected 3 edges, got %d", len(desc.Edges))
	}

	inCycle := map[string]bool{}
	for _, e := range desc.Edges {
		inCycle[e.From+"->"+e.To] = e.InCycle
	}
	if !inCycle["a->b"] || !inCycle["b->a"] {
		t.Errorf("Expected both cycle edges flagged, got %v", inCycle)
	}
	if inCycle["main->a"] {
		t.Errorf("Expected main->a outside the cycle, got %v", inCycle)
	}
}
