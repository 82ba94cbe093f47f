package graph

import (
	"sort"
	"strings"

	apperrors "depmap/internal/errors"
	"depmap/internal/parser"
	"depmap/internal/resolver"
)

// Graph is the directed import graph over qualified unit names, plus its
// reverse for fan-in queries. It is built once per scan and read-only
// afterward; every analysis is a pure read.
type Graph struct {
	nodes   map[string]bool
	edges   map[string]map[string]bool // from -> to
	reverse map[string]map[string]bool // to -> from
}

// Build resolves every raw declaration of every unit and records one
// deduplicated directed edge per successful resolution. A declaration that
// does not resolve (stdlib, third party, unknown) contributes nothing; a
// unit with a parse failure simply has no declarations to resolve.
func Build(units map[string]*parser.Unit) *Graph {
	g := &Graph{
		nodes:   make(map[string]bool, len(units)),
		edges:   make(map[string]map[string]bool),
		reverse: make(map[string]map[string]bool),
	}

	unitNames := make(map[string]bool, len(units))
	topLevels := make(map[string]bool)
	for name := range units {
		g.nodes[name] = true
		unitNames[name] = true
		topLevels[firstSegment(name)] = true
	}

	for name, unit := range units {
		for _, decl := range unit.Imports {
			target, ok := resolver.Resolve(decl, name, unitNames, topLevels)
			if !ok {
				continue
			}
			if g.edges[name] == nil {
				g.edges[name] = make(map[string]bool)
			}
			g.edges[name][target] = true
		}
	}

	for from, targets := range g.edges {
		for to := range targets {
			if g.reverse[to] == nil {
				g.reverse[to] = make(map[string]bool)
			}
			g.reverse[to][from] = true
		}
	}

	return g
}

func (g *Graph) Has(name string) bool {
	return g.nodes[name]
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	total := 0
	for _, targets := range g.edges {
		total += len(targets)
	}
	return total
}

// Nodes returns every qualified name in the graph, sorted.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the sorted forward edge set of a node. Unknown names
// yield an empty slice; use ImportsOf for a typed failure.
func (g *Graph) Dependencies(name string) []string {
	return sortedSet(g.edges[name])
}

// Dependents returns the sorted reverse edge set of a node.
func (g *Graph) Dependents(name string) []string {
	return sortedSet(g.reverse[name])
}

func (g *Graph) FanOut(name string) int {
	return len(g.edges[name])
}

func (g *Graph) FanIn(name string) int {
	return len(g.reverse[name])
}

// ImportsOf is the single-unit forward query. Unlike Dependencies it fails
// with UNIT_NOT_FOUND for names outside the unit set.
func (g *Graph) ImportsOf(name string) ([]string, error) {
	if !g.nodes[name] {
		return nil, apperrors.Newf(apperrors.CodeUnitNotFound, "unit not found: %s", name)
	}
	return g.Dependencies(name), nil
}

// ImportersOf is the single-unit reverse query.
func (g *Graph) ImportersOf(name string) ([]string, error) {
	if !g.nodes[name] {
		return nil, apperrors.Newf(apperrors.CodeUnitNotFound, "unit not found: %s", name)
	}
	return g.Dependents(name), nil
}

func firstSegment(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
