package report

import (
	"encoding/json"
	"time"

	apperrors "depmap/internal/errors"
	"depmap/internal/graph"
	"depmap/internal/scan"
)

// jsonReport is the machine-readable report shape. Field names are part
// of the output contract; renaming them breaks downstream consumers.
type jsonReport struct {
	Summary         jsonSummary            `json:"summary"`
	Modules         []jsonModule           `json:"modules"`
	Dependencies    map[string][]string    `json:"dependencies"`
	CircularImports [][]string             `json:"circular_imports"`
	CouplingMetrics []graph.CouplingMetric `json:"coupling_metrics"`
	Orphans         []string               `json:"orphans"`
	ParseErrors     map[string]string      `json:"parse_errors"`
}

type jsonSummary struct {
	Project         string  `json:"project"`
	GeneratedAt     string  `json:"generated_at"`
	ToolVersion     string  `json:"tool_version"`
	TotalFiles      int     `json:"total_files"`
	TotalModules    int     `json:"total_modules"`
	TotalEdges      int     `json:"total_edges"`
	CircularImports int     `json:"circular_imports"`
	OrphanModules   int     `json:"orphan_modules"`
	ParseErrors     int     `json:"parse_errors"`
	ScanSeconds     float64 `json:"scan_seconds"`
}

type jsonModule struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	IsPackage bool   `json:"is_package"`
	LineCount int    `json:"line_count"`
}

func (a *Assembler) renderJSON(result *scan.Result) (string, error) {
	g := result.Graph
	cycles := g.FindCycles(a.MaxCycleLength)
	metrics, _ := g.Metrics(graph.SortInstability)

	rep := jsonReport{
		Summary: jsonSummary{
			Project:         result.RootPath,
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			ToolVersion:     toolVersion,
			TotalFiles:      result.TotalFiles,
			TotalModules:    g.NodeCount(),
			TotalEdges:      g.EdgeCount(),
			CircularImports: len(cycles),
			OrphanModules:   len(g.Orphans()),
			ParseErrors:     result.ParseErrors,
			ScanSeconds:     result.Elapsed.Seconds(),
		},
		Dependencies:    make(map[string][]string),
		CircularImports: make([][]string, 0, len(cycles)),
		CouplingMetrics: metrics,
		Orphans:         g.Orphans(),
		ParseErrors:     make(map[string]string),
	}

	for _, name := range sortedUnitNames(result) {
		unit := result.Units[name]
		rep.Modules = append(rep.Modules, jsonModule{
			Name:      name,
			Path:      unit.Path,
			IsPackage: unit.IsPackage,
			LineCount: unit.LineCount,
		})
		if unit.ParseError != "" {
			rep.ParseErrors[name] = unit.ParseError
		}
	}

	for _, node := range g.Nodes() {
		deps := g.Dependencies(node)
		if len(deps) > 0 {
			rep.Dependencies[node] = deps
		}
	}
	for _, cycle := range cycles {
		nodes := make([]string, len(cycle.Nodes))
		copy(nodes, cycle.Nodes)
		rep.CircularImports = append(rep.CircularImports, nodes)
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "encode report")
	}
	return string(data) + "\n", nil
}
