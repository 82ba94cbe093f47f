package graph

import (
	"reflect"
	"testing"
)

func TestFindCyclesTwoNode(t *testing.T) {
	g := Build(unitMap(
		unit("a", "b"),
		unit("b", "a"),
	))

	cycles := g.FindCycles(20)
	if len(cycles) != 1 {
		t.Fatalf("Expected exactly 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(cycles[0].Nodes, want) {
		t.Errorf("Cycle nodes = %v, want %v", cycles[0].Nodes, want)
	}
	if got := cycles[0].String(); got != "a -> b -> a" {
		t.Errorf("Cycle string = %q, want %q", got, "a -> b -> a")
	}
}

func TestFindCyclesThreeNode(t *testing.T) {
	g := Build(unitMap(
		unit("x", "y"),
		unit("y", "z"),
		unit("z", "x"),
	))

	cycles := g.FindCycles(20)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d", len(cycles))
	}
	// Canonical rotation starts at the smallest node regardless of where
	// traversal entered the cycle.
	if want := []string{"x", "y", "z"}; !reflect.DeepEqual(cycles[0].Nodes, want) {
		t.Errorf("Cycle nodes = %v, want %v", cycles[0].Nodes, want)
	}
}

// Pins the documented limitation of the shared visited set: a cycle whose
// only entry node was already consumed by an earlier traversal is not
// reported. With a -> b -> c -> a plus a shortcut edge a -> c, the walk from
// a discovers [a b c] and marks c visited, so the shorter [a c] cycle is
// never expanded. Anyone changing the traversal should revisit this test
// deliberately rather than trip over it.
func TestFindCyclesSharedVisitedMissesSecondEntry(t *testing.T) {
	g := Build(unitMap(
		unit("a", "b", "c"),
		unit("b", "c"),
		unit("c", "a"),
	))

	cycles := g.FindCycles(20)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(cycles[0].Nodes, want) {
		t.Errorf("Cycle nodes = %v, want %v", cycles[0].Nodes, want)
	}
}

func TestFindCyclesNone(t *testing.T) {
	g := Build(unitMap(
		unit("main", "core"),
		unit("core", "utils"),
		unit("utils"),
	))

	if cycles := g.FindCycles(20); len(cycles) != 0 {
		t.Errorf("Expected no cycles, got %v", cycles)
	}
}

func TestFindCyclesSelfImport(t *testing.T) {
	g := Build(unitMap(
		unit("loop", "loop"),
	))

	cycles := g.FindCycles(20)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 self-cycle, got %d", len(cycles))
	}
	if want := []string{"loop"}; !reflect.DeepEqual(cycles[0].Nodes, want) {
		t.Errorf("Cycle nodes = %v, want %v", cycles[0].Nodes, want)
	}
	if got := cycles[0].String(); got != "loop -> loop" {
		t.Errorf("Cycle string = %q", got)
	}
}

func TestFindCyclesMaxLength(t *testing.T) {
	g := Build(unitMap(
		unit("a", "b"),
		unit("b", "c"),
		unit("c", "a"),
	))

	if cycles := g.FindCycles(2); len(cycles) != 0 {
		t.Errorf("Expected 3-node cycle suppressed at max length 2, got %v", cycles)
	}
	if cycles := g.FindCycles(3); len(cycles) != 1 {
		t.Errorf("Expected cycle reported at max length 3, got %v", cycles)
	}
}

func TestFindCyclesSorted(t *testing.T) {
	g := Build(unitMap(
		unit("m", "n"),
		unit("n", "m"),
		unit("a", "b"),
		unit("b", "a"),
	))

	cycles := g.FindCycles(20)
	if len(cycles) != 2 {
		t.Fatalf("Expected 2 cycles, got %d", len(cycles))
	}
	if cycles[0].Nodes[0] != "a" || cycles[1].Nodes[0] != "m" {
		t.Errorf("Expected cycles sorted lexicographically, got %v then %v", cycles[0].Nodes, cycles[1].Nodes)
	}
}

func TestCanonicalRotation(t *testing.T) {
	got := canonicalRotation([]string{"c", "a", "b"})
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("canonicalRotation = %v, want %v", got, want)
	}
}
