package report

import (
	"encoding/json"
	"strings"
	"testing"

	apperrors "depmap/internal/errors"
	"depmap/internal/graph"
	"depmap/internal/parser"
	"depmap/internal/scan"
)

func testResult() *scan.Result {
	units := map[string]*parser.Unit{
		"main": {
			Name: "main", Path: "/proj/main.py", LineCount: 10,
			Imports: []parser.ImportDecl{{Module: "core"}, {Module: "utils"}},
		},
		"core": {
			Name: "core", Path: "/proj/core/__init__.py", IsPackage: true, LineCount: 5,
			Imports: []parser.ImportDecl{{Module: "utils"}},
		},
		"utils": {
			Name: "utils", Path: "/proj/utils.py", LineCount: 20,
			Imports: []parser.ImportDecl{{Module: "core"}},
		},
		"broken": {
			Name: "broken", Path: "/proj/broken.py", LineCount: 2,
			ParseError: "syntax error: invalid syntax",
		},
	}
	return &scan.Result{
		RootPath:    "/proj",
		Units:       units,
		Graph:       graph.Build(units),
		TotalFiles:  4,
		ParseErrors: 1,
	}
}

func TestGenerateNilResult(t *testing.T) {
	a := NewAssembler(10, 20)
	_, err := a.Generate(nil, FormatText)
	if !apperrors.IsCode(err, apperrors.CodeNotScanned) {
		t.Fatalf("Expected NOT_SCANNED, got %v", err)
	}
}

func TestGenerateText(t *testing.T) {
	a := NewAssembler(10, 20)
	out, err := a.Generate(testResult(), FormatText)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"DEPENDENCY ANALYSIS REPORT",
		"DEPENDENCY TREE",
		"CIRCULAR IMPORTS",
		"Cycle 1: core -> utils -> core",
		"COUPLING METRICS",
		"ORPHAN MODULES",
		"main (entry point / orchestrator)",
		"broken (standalone / potential dead code)",
		"PARSE ERRORS",
		"broken: syntax error: invalid syntax",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Text report missing %q", want)
		}
	}
}

func TestGenerateJSON(t *testing.T) {
	a := NewAssembler(10, 20)
	out, err := a.Generate(testResult(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	var rep struct {
		Summary struct {
			TotalModules    int `json:"total_modules"`
			TotalEdges      int `json:"total_edges"`
			CircularImports int `json:"circular_imports"`
			ParseErrors     int `json:"parse_errors"`
		} `json:"summary"`
		Dependencies    map[string][]string `json:"dependencies"`
		CircularImports [][]string          `json:"circular_imports"`
		Orphans         []string            `json:"orphans"`
		ParseErrors     map[string]string   `json:"parse_errors"`
	}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	if rep.Summary.TotalModules != 4 {
		t.Errorf("TotalModules = %d, want 4", rep.Summary.TotalModules)
	}
	if rep.Summary.CircularImports != 1 {
		t.Errorf("CircularImports = %d, want 1", rep.Summary.CircularImports)
	}
	if len(rep.CircularImports) != 1 || rep.CircularImports[0][0] != "core" {
		t.Errorf("CircularImports = %v", rep.CircularImports)
	}
	if deps := rep.Dependencies["main"]; len(deps) != 2 {
		t.Errorf("Dependencies[main] = %v", deps)
	}
	if rep.ParseErrors["broken"] == "" {
		t.Error("Expected broken in parse_errors")
	}
}

func TestGenerateMarkdown(t *testing.T) {
	a := NewAssembler(10, 20)
	out, err := a.Generate(testResult(), FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# depmap - Dependency Analysis Report",
		"## Summary",
		"| Circular Imports | 1 [!] FOUND |",
		"## Coupling Metrics",
		"| Module | Fan-In | Fan-Out | Instability |",
		"## Orphan Modules",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown report missing %q", want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"text":     FormatText,
		"json":     FormatJSON,
		"markdown": FormatMarkdown,
	} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", name, got, err)
		}
	}

	_, err := ParseFormat("yaml")
	if !apperrors.IsCode(err, apperrors.CodeInvalidArgument) {
		t.Fatalf("Expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestDOTGenerator(t *testing.T) {
	result := testResult()
	cycles := result.Graph.FindCycles(20)
	dot := NewDOTGenerator(result.Graph, result.Units).Generate(cycles)

	if !strings.HasPrefix(dot, "digraph dependencies {") {
		t.Errorf("DOT output missing header:\n%s", dot)
	}
	if !strings.Contains(dot, `"core" -> "utils" [color="red", penwidth=3.0, label="CYCLE"];`) {
		t.Errorf("Expected cycle edge highlighted:\n%s", dot)
	}
	if !strings.Contains(dot, "lightblue") {
		t.Errorf("Expected package node styling:\n%s", dot)
	}
	if !strings.Contains(dot, `"main"`) {
		t.Errorf("Expected main node present:\n%s", dot)
	}
}
