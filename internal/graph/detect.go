package graph

import (
	"sort"
	"strings"
)

// Cycle is one elementary import cycle. Nodes holds the canonical rotation
// of the chain without the closing repeat: the sequence starts at the
// lexicographically smallest member and the last node imports the first.
type Cycle struct {
	Nodes []string
}

func (c Cycle) String() string {
	if len(c.Nodes) == 0 {
		return ""
	}
	return strings.Join(c.Nodes, " -> ") + " -> " + c.Nodes[0]
}

// FindCycles reports every elementary cycle of at most maxLen edges found by
// a depth-first search over nodes in lexicographic order.
//
// Known limitation: the visited set is shared across all traversal roots, so
// a node's cycles are only discovered from the first root that reaches it.
// A cycle that is reachable solely through an already-visited entry node can
// be missed. Callers wanting exhaustive enumeration need a different
// algorithm; for import hygiene reporting this trade keeps detection linear
// in practice.
func (g *Graph) FindCycles(maxLen int) []Cycle {
	visited := make(map[string]bool, len(g.nodes))
	pathSet := make(map[string]bool)
	var path []string

	seen := make(map[string]bool)
	var cycles []Cycle

	var dfs func(node string)
	dfs = func(node string) {
		if pathSet[node] {
			start := 0
			for i, n := range path {
				if n == node {
					start = i
					break
				}
			}
			chain := make([]string, len(path)-start)
			copy(chain, path[start:])
			if len(chain) <= maxLen {
				canon := canonicalRotation(chain)
				key := strings.Join(canon, "\x00")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, Cycle{Nodes: canon})
				}
			}
			return
		}
		if visited[node] {
			return
		}

		visited[node] = true
		path = append(path, node)
		pathSet[node] = true

		for _, dep := range g.Dependencies(node) {
			dfs(dep)
		}

		path = path[:len(path)-1]
		delete(pathSet, node)
	}

	for _, node := range g.Nodes() {
		if !visited[node] {
			dfs(node)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		a, b := cycles[i].Nodes, cycles[j].Nodes
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})

	return cycles
}

// canonicalRotation rotates a cycle's node sequence so it starts at the
// lexicographically smallest node. Two enumerations of the same elementary
// cycle always canonicalize identically, which is what dedupe relies on.
func canonicalRotation(nodes []string) []string {
	if len(nodes) == 0 {
		return nodes
	}
	minIdx := 0
	for i, n := range nodes {
		if n < nodes[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]string, 0, len(nodes))
	rotated = append(rotated, nodes[minIdx:]...)
	rotated = append(rotated, nodes[:minIdx]...)
	return rotated
}
