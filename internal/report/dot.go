package report

import (
	"fmt"
	"strings"

	"depmap/internal/graph"
	"depmap/internal/parser"
)

// DOTGenerator renders the dependency graph as Graphviz DOT source.
// Output is deterministic: nodes and edges appear in sorted order.
type DOTGenerator struct {
	graph *graph.Graph
	units map[string]*parser.Unit
}

func NewDOTGenerator(g *graph.Graph, units map[string]*parser.Unit) *DOTGenerator {
	return &DOTGenerator{graph: g, units: units}
}

func (d *DOTGenerator) Generate(cycles []graph.Cycle) string {
	desc := d.graph.Describe(cycles)

	cycleNodes := make(map[string]bool)
	for _, cycle := range cycles {
		for _, name := range cycle.Nodes {
			cycleNodes[name] = true
		}
	}

	var buf strings.Builder
	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  overlap=false;\n\n")

	for _, name := range desc.Nodes {
		label := name
		if unit, ok := d.units[name]; ok && unit.LineCount > 0 {
			label = fmt.Sprintf("%s\\n(%d lines)", name, unit.LineCount)
		}
		switch {
		case cycleNodes[name]:
			fmt.Fprintf(&buf, "  %q [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", penwidth=2.0];\n", name, label)
		case d.isPackage(name):
			fmt.Fprintf(&buf, "  %q [label=\"%s\", fillcolor=\"lightblue\", color=\"steelblue\"];\n", name, label)
		default:
			fmt.Fprintf(&buf, "  %q [label=\"%s\", fillcolor=\"white\", color=\"darkslategrey\"];\n", name, label)
		}
	}
	buf.WriteString("\n")

	for _, edge := range desc.Edges {
		if edge.InCycle {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", edge.From, edge.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=\"darkslategrey\"];\n", edge.From, edge.To)
		}
	}

	buf.WriteString("\n  subgraph cluster_legend {\n")
	buf.WriteString("    label=\"Legend\";\n")
	buf.WriteString("    style=dashed;\n")
	buf.WriteString("    legend_module [label=\"Module\", fillcolor=\"white\"];\n")
	buf.WriteString("    legend_package [label=\"Package (__init__)\", fillcolor=\"lightblue\"];\n")
	buf.WriteString("    legend_cycle [label=\"Circular Import\", fillcolor=\"mistyrose\", color=\"red\"];\n")
	buf.WriteString("  }\n")

	buf.WriteString("}\n")
	return buf.String()
}

func (d *DOTGenerator) isPackage(name string) bool {
	unit, ok := d.units[name]
	return ok && unit.IsPackage
}
