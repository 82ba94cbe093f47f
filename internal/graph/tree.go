package graph

import (
	"fmt"
	"strings"
)

// RenderTree renders an indented dependency tree. With an empty root it
// starts from every unit with zero in-degree; if the whole graph is cyclic
// it falls back to every unit so the output is never empty. A repeated node
// on the current branch is printed once with a cycle marker and not
// expanded, so rendering terminates on any graph.
func (g *Graph) RenderTree(root string, maxDepth int) string {
	var lines []string

	if root != "" {
		if !g.nodes[root] {
			return fmt.Sprintf("[!] Module not found: %s", root)
		}
		lines = append(lines, root)
		g.buildTree(root, "", &lines, map[string]bool{}, 0, maxDepth)
		return strings.Join(lines, "\n")
	}

	roots := g.Orphans()
	if len(roots) == 0 {
		roots = g.Nodes()
	}

	for i, node := range roots {
		lines = append(lines, node)
		g.buildTree(node, "", &lines, map[string]bool{}, 0, maxDepth)
		if i < len(roots)-1 {
			lines = append(lines, "")
		}
	}

	return strings.Join(lines, "\n")
}

// buildTree descends depth-first with a per-branch visited set: each child
// recursion gets its own copy, so cycle memory follows the branch rather
// than the whole traversal.
func (g *Graph) buildTree(node, prefix string, lines *[]string, visited map[string]bool, depth, maxDepth int) {
	if depth >= maxDepth {
		return
	}

	visited[node] = true

	deps := g.Dependencies(node)
	for i, dep := range deps {
		last := i == len(deps)-1
		connector := "|-- "
		extension := "|   "
		if last {
			connector = "`-- "
			extension = "    "
		}

		if visited[dep] {
			*lines = append(*lines, prefix+connector+dep+" [circular]")
			continue
		}

		*lines = append(*lines, prefix+connector+dep)
		g.buildTree(dep, prefix+extension, lines, copyVisited(visited), depth+1, maxDepth)
	}
}

func copyVisited(visited map[string]bool) map[string]bool {
	c := make(map[string]bool, len(visited))
	for k, v := range visited {
		c[k] = v
	}
	return c
}
