package graph

// Edge is one directed dependency in a graph description. InCycle marks
// membership in a detected cycle so external visualization tooling can
// highlight it; no styling is decided here.
type Edge struct {
	From    string `json:"from"`
	To      string `json:"to"`
	InCycle bool   `json:"in_cycle"`
}

// Description is the exportable form of the graph: sorted node list plus
// sorted edge list with cycle membership flags.
type Description struct {
	Nodes []string `json:"nodes"`
	Edges []Edge   `json:"edges"`
}

// Describe flattens the graph against a set of detected cycles. Cycle edges
// are the consecutive pairs of each cycle including the closing return.
func (g *Graph) Describe(cycles []Cycle) Description {
	cycleEdges := make(map[string]map[string]bool)
	for _, cycle := range cycles {
		for i := range cycle.Nodes {
			from := cycle.Nodes[i]
			to := cycle.Nodes[(i+1)%len(cycle.Nodes)]
			if cycleEdges[from] == nil {
				cycleEdges[from] = make(map[string]bool)
			}
			cycleEdges[from][to] = true
		}
	}

	desc := Description{Nodes: g.Nodes()}
	for _, from := range desc.Nodes {
		for _, to := range g.Dependencies(from) {
			desc.Edges = append(desc.Edges, Edge{
				From:    from,
				To:      to,
				InCycle: cycleEdges[from] != nil && cycleEdges[from][to],
			})
		}
	}

	return desc
}
