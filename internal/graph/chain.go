package graph

import (
	apperrors "depmap/internal/errors"
)

// FindImportChain returns the shortest import path from one unit to another
// by breadth-first search over the forward graph. Both endpoints must be
// known units; when no chain exists the result is nil with no error.
func (g *Graph) FindImportChain(from, to string) ([]string, error) {
	if !g.nodes[from] {
		return nil, apperrors.Newf(apperrors.CodeUnitNotFound, "unit not found: %s", from)
	}
	if !g.nodes[to] {
		return nil, apperrors.Newf(apperrors.CodeUnitNotFound, "unit not found: %s", to)
	}

	if from == to {
		return []string{from}, nil
	}

	parent := map[string]string{from: ""}
	queue := []string{from}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, dep := range g.Dependencies(node) {
			if _, seen := parent[dep]; seen {
				continue
			}
			parent[dep] = node
			if dep == to {
				var chain []string
				for at := to; at != ""; at = parent[at] {
					chain = append([]string{at}, chain...)
				}
				return chain, nil
			}
			queue = append(queue, dep)
		}
	}

	return nil, nil
}
