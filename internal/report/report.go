package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "depmap/internal/errors"
	"depmap/internal/graph"
	"depmap/internal/observability"
	"depmap/internal/scan"
)

const toolVersion = "1.0.0"

// Assembler composes the analysis outputs of one scan into a single
// rendered report. It performs no analysis of its own.
type Assembler struct {
	MaxTreeDepth   int
	MaxCycleLength int
}

func NewAssembler(maxTreeDepth, maxCycleLength int) *Assembler {
	return &Assembler{
		MaxTreeDepth:   maxTreeDepth,
		MaxCycleLength: maxCycleLength,
	}
}

// Generate renders the full report for one scan result.
func (a *Assembler) Generate(result *scan.Result, format Format) (string, error) {
	if result == nil {
		return "", apperrors.New(apperrors.CodeNotScanned, "no scan result; run a scan first")
	}

	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())
	}()

	switch format {
	case FormatText:
		return a.renderText(result), nil
	case FormatJSON:
		return a.renderJSON(result)
	case FormatMarkdown:
		return a.renderMarkdown(result), nil
	default:
		return "", apperrors.Newf(apperrors.CodeInvalidArgument, "invalid format %d", format)
	}
}

func (a *Assembler) renderText(result *scan.Result) string {
	g := result.Graph
	cycles := g.FindCycles(a.MaxCycleLength)
	metrics, _ := g.Metrics(graph.SortInstability)
	orphans := g.Orphans()

	sep := strings.Repeat("=", 70)
	thin := strings.Repeat("-", 70)
	var b strings.Builder

	b.WriteString(sep + "\n")
	b.WriteString("DEPMAP - DEPENDENCY ANALYSIS REPORT\n")
	b.WriteString(sep + "\n")
	fmt.Fprintf(&b, "Project: %s\n", result.RootPath)
	fmt.Fprintf(&b, "Scanned: %d Python files\n", result.TotalFiles)
	fmt.Fprintf(&b, "Parse errors: %d\n", result.ParseErrors)
	fmt.Fprintf(&b, "Scan time: %.3fs\n", result.Elapsed.Seconds())
	fmt.Fprintf(&b, "Modules: %d\n", g.NodeCount())
	fmt.Fprintf(&b, "Dependencies: %d\n\n", g.EdgeCount())

	b.WriteString(sep + "\n")
	b.WriteString("DEPENDENCY TREE\n")
	b.WriteString(thin + "\n")
	tree := g.RenderTree("", a.MaxTreeDepth)
	if strings.TrimSpace(tree) != "" {
		b.WriteString(tree + "\n")
	} else {
		b.WriteString("(no local dependencies found)\n")
	}
	b.WriteString("\n")

	b.WriteString(sep + "\n")
	b.WriteString("CIRCULAR IMPORTS\n")
	b.WriteString(thin + "\n")
	if len(cycles) > 0 {
		fmt.Fprintf(&b, "[!] Found %d circular import chain(s):\n\n", len(cycles))
		for i, cycle := range cycles {
			fmt.Fprintf(&b, "  Cycle %d: %s\n", i+1, cycle.String())
		}
	} else {
		b.WriteString("[OK] No circular imports detected!\n")
	}
	b.WriteString("\n")

	b.WriteString(sep + "\n")
	b.WriteString("COUPLING METRICS\n")
	b.WriteString(thin + "\n")
	if len(metrics) > 0 {
		fmt.Fprintf(&b, "%-40s %7s %8s %8s\n", "Module", "Fan-In", "Fan-Out", "Instab.")
		b.WriteString(thin + "\n")
		for _, m := range metrics {
			fmt.Fprintf(&b, "%-40s %7d %8d %8.3f\n", m.Unit, m.FanIn, m.FanOut, m.Instability)
		}
	} else {
		b.WriteString("(no modules to analyze)\n")
	}
	b.WriteString("\n")

	b.WriteString(sep + "\n")
	b.WriteString("ORPHAN MODULES (no inbound imports)\n")
	b.WriteString(thin + "\n")
	if len(orphans) > 0 {
		for _, name := range orphans {
			fmt.Fprintf(&b, "  %s (%s)\n", name, orphanLabel(g, name))
		}
	} else {
		b.WriteString("(all modules are imported by at least one other)\n")
	}
	b.WriteString("\n")

	if result.ParseErrors > 0 {
		b.WriteString(sep + "\n")
		b.WriteString("PARSE ERRORS\n")
		b.WriteString(thin + "\n")
		for _, name := range sortedUnitNames(result) {
			if reason := result.Units[name].ParseError; reason != "" {
				fmt.Fprintf(&b, "  %s: %s\n", name, reason)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(sep + "\n")
	b.WriteString("Report generated by depmap v" + toolVersion + "\n")
	b.WriteString(sep + "\n")

	return b.String()
}

func (a *Assembler) renderMarkdown(result *scan.Result) string {
	g := result.Graph
	cycles := g.FindCycles(a.MaxCycleLength)
	metrics, _ := g.Metrics(graph.SortInstability)
	orphans := g.Orphans()

	var b strings.Builder

	b.WriteString("# depmap - Dependency Analysis Report\n\n")
	fmt.Fprintf(&b, "**Project:** `%s`  \n", result.RootPath)
	fmt.Fprintf(&b, "**Files Scanned:** %d  \n", result.TotalFiles)
	fmt.Fprintf(&b, "**Modules Found:** %d  \n", g.NodeCount())
	fmt.Fprintf(&b, "**Dependencies:** %d  \n", g.EdgeCount())
	fmt.Fprintf(&b, "**Parse Errors:** %d  \n", result.ParseErrors)
	fmt.Fprintf(&b, "**Scan Time:** %.3fs  \n\n", result.Elapsed.Seconds())

	b.WriteString("## Summary\n\n")
	circStatus := "[OK]"
	if len(cycles) > 0 {
		circStatus = "[!] FOUND"
	}
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Python Files | %d |\n", result.TotalFiles)
	fmt.Fprintf(&b, "| Local Modules | %d |\n", g.NodeCount())
	fmt.Fprintf(&b, "| Dependencies | %d |\n", g.EdgeCount())
	fmt.Fprintf(&b, "| Circular Imports | %d %s |\n", len(cycles), circStatus)
	fmt.Fprintf(&b, "| Orphan Modules | %d |\n", len(orphans))
	fmt.Fprintf(&b, "| Parse Errors | %d |\n\n", result.ParseErrors)

	b.WriteString("## Dependency Tree\n\n")
	b.WriteString("```\n")
	tree := g.RenderTree("", a.MaxTreeDepth)
	if strings.TrimSpace(tree) != "" {
		b.WriteString(tree + "\n")
	} else {
		b.WriteString("(no local dependencies)\n")
	}
	b.WriteString("```\n\n")

	b.WriteString("## Circular Imports\n\n")
	if len(cycles) > 0 {
		fmt.Fprintf(&b, "**[!] %d circular import chain(s) detected:**\n\n", len(cycles))
		for i, cycle := range cycles {
			fmt.Fprintf(&b, "%d. `%s`\n", i+1, cycle.String())
		}
	} else {
		b.WriteString("**[OK] No circular imports detected!**\n")
	}
	b.WriteString("\n")

	b.WriteString("## Coupling Metrics\n\n")
	if len(metrics) > 0 {
		b.WriteString("| Module | Fan-In | Fan-Out | Instability |\n")
		b.WriteString("|--------|--------|---------|-------------|\n")
		for _, m := range metrics {
			fmt.Fprintf(&b, "| %s | %d | %d | %.3f |\n", m.Unit, m.FanIn, m.FanOut, m.Instability)
		}
	} else {
		b.WriteString("(no modules to analyze)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Orphan Modules\n\n")
	if len(orphans) > 0 {
		b.WriteString("These modules are not imported by any other local module:\n\n")
		for _, name := range orphans {
			fmt.Fprintf(&b, "- `%s` (%s)\n", name, orphanLabel(g, name))
		}
	} else {
		b.WriteString("All modules are imported by at least one other.\n")
	}
	b.WriteString("\n")

	b.WriteString("---\n")
	b.WriteString("*Generated by depmap v" + toolVersion + "*\n")

	return b.String()
}

// orphanLabel classifies an orphan from its fan-out: importing something
// makes it an entry point, importing nothing makes it a candidate for
// dead code. This is a projection over existing data, not new analysis.
func orphanLabel(g *graph.Graph, name string) string {
	if g.FanOut(name) > 0 {
		return "entry point / orchestrator"
	}
	return "standalone / potential dead code"
}

func sortedUnitNames(result *scan.Result) []string {
	names := make([]string, 0, len(result.Units))
	for name := range result.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
