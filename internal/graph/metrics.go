package graph

import (
	"math"
	"sort"

	apperrors "depmap/internal/errors"
)

// CouplingMetric captures afferent/efferent coupling for one unit.
// Instability is fan-out / (fan-in + fan-out): 0 means everything depends on
// the unit, 1 means the unit depends on everything.
type CouplingMetric struct {
	Unit        string  `json:"module"`
	FanIn       int     `json:"fan_in"`
	FanOut      int     `json:"fan_out"`
	Instability float64 `json:"instability"`
}

const (
	SortInstability = "instability"
	SortFanIn       = "fan_in"
	SortFanOut      = "fan_out"
	SortName        = "name"
)

// Metrics computes coupling metrics for every unit. Numeric sort keys order
// descending with name as tie-break; "name" orders ascending.
func (g *Graph) Metrics(sortKey string) ([]CouplingMetric, error) {
	switch sortKey {
	case SortInstability, SortFanIn, SortFanOut, SortName:
	default:
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument,
			"invalid sort key %q (valid: fan_in, fan_out, instability, name)", sortKey)
	}

	metrics := make([]CouplingMetric, 0, len(g.nodes))
	for _, name := range g.Nodes() {
		fanOut := len(g.edges[name])
		fanIn := len(g.reverse[name])

		instability := 0.0
		if total := fanIn + fanOut; total > 0 {
			instability = math.Round(float64(fanOut)/float64(total)*1000) / 1000
		}

		metrics = append(metrics, CouplingMetric{
			Unit:        name,
			FanIn:       fanIn,
			FanOut:      fanOut,
			Instability: instability,
		})
	}

	switch sortKey {
	case SortName:
		sort.Slice(metrics, func(i, j int) bool { return metrics[i].Unit < metrics[j].Unit })
	case SortFanIn:
		sort.Slice(metrics, func(i, j int) bool {
			if metrics[i].FanIn != metrics[j].FanIn {
				return metrics[i].FanIn > metrics[j].FanIn
			}
			return metrics[i].Unit < metrics[j].Unit
		})
	case SortFanOut:
		sort.Slice(metrics, func(i, j int) bool {
			if metrics[i].FanOut != metrics[j].FanOut {
				return metrics[i].FanOut > metrics[j].FanOut
			}
			return metrics[i].Unit < metrics[j].Unit
		})
	default:
		sort.Slice(metrics, func(i, j int) bool {
			if metrics[i].Instability != metrics[j].Instability {
				return metrics[i].Instability > metrics[j].Instability
			}
			return metrics[i].Unit < metrics[j].Unit
		})
	}

	return metrics, nil
}

// Orphans returns every unit that no other unit imports, sorted. An orphan
// with outgoing edges is an entry point; one without is standalone code.
func (g *Graph) Orphans() []string {
	var orphans []string
	for _, name := range g.Nodes() {
		if len(g.reverse[name]) == 0 {
			orphans = append(orphans, name)
		}
	}
	return orphans
}
