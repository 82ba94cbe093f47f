package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "depmap/internal/errors"
	"depmap/internal/graph"
	"depmap/internal/observability"
	"depmap/internal/parser"
)

// Result owns everything one scan produced. It is the only long-lived value
// analyses read from: they take a Result (or its Graph) explicitly rather
// than sharing ambient scanner state.
type Result struct {
	RootPath    string
	Units       map[string]*parser.Unit
	Graph       *graph.Graph
	Elapsed     time.Duration
	TotalFiles  int
	ParseErrors int
}

// Scanner enumerates Python files under a root, parses them and builds the
// dependency graph. A Scanner is reusable across scans; each Scan returns a
// fresh, independent Result.
type Scanner struct {
	parser       *parser.Parser
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
}

func NewScanner(p *parser.Parser, excludeDirs, excludeFiles []string) (*Scanner, error) {
	s := &Scanner{parser: p}

	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", pattern, err)
		}
		s.excludeDirs = append(s.excludeDirs, g)
	}
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", pattern, err)
		}
		s.excludeFiles = append(s.excludeFiles, g)
	}

	return s, nil
}

// Scan walks root (a directory or a single .py file), parses every candidate
// file and builds the import graph. Per-file failures never abort the scan:
// a broken file becomes a unit with a parse error and no outgoing edges.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "scanner.Scan",
		trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	target, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArgument, "resolve root path")
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "path not found: %s", root)
	}
	if !info.IsDir() && filepath.Ext(target) != ".py" {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "not a Python file: %s", root)
	}

	start := time.Now()
	result := &Result{
		RootPath: target,
		Units:    make(map[string]*parser.Unit),
	}

	var files []string
	if info.IsDir() {
		files, err = s.findSourceFiles(target)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "walk project tree")
		}
	} else {
		files = []string{target}
	}
	result.TotalFiles = len(files)

	for _, path := range files {
		name := qualifiedName(path, target, info.IsDir())
		unit := s.parseFile(name, path)
		result.Units[name] = unit
		if unit.ParseError != "" {
			result.ParseErrors++
			observability.ParseErrors.Inc()
		}
	}

	result.Graph = graph.Build(result.Units)
	result.Elapsed = time.Since(start)

	observability.ScanDuration.Observe(result.Elapsed.Seconds())
	observability.GraphNodes.Set(float64(result.Graph.NodeCount()))
	observability.GraphEdges.Set(float64(result.Graph.EdgeCount()))
	span.SetAttributes(
		attribute.Int("files", result.TotalFiles),
		attribute.Int("parse_errors", result.ParseErrors),
		attribute.Int("edges", result.Graph.EdgeCount()),
	)

	return result, nil
}

// findSourceFiles walks the tree and returns every .py file in sorted order,
// pruning excluded directories during the walk.
func (s *Scanner) findSourceFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if path != root {
				for _, g := range s.excludeDirs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
			}
			return nil
		}

		if filepath.Ext(path) != ".py" {
			return nil
		}
		for _, g := range s.excludeFiles {
			if g.Match(base) {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (s *Scanner) parseFile(name, path string) *parser.Unit {
	start := time.Now()
	defer func() {
		observability.ParsingDuration.Observe(time.Since(start).Seconds())
	}()

	content, err := os.ReadFile(path)
	if err != nil {
		return &parser.Unit{
			Name:       name,
			Path:       path,
			ParseError: fmt.Sprintf("read error: %v", err),
		}
	}

	return s.parser.ParseUnit(name, path, content)
}

// qualifiedName derives a unit's dotted name from its location under root.
// __init__.py contributes its directory's name; a root-level __init__.py
// takes the root directory's own name. Single-file scans use the file stem.
func qualifiedName(path, root string, rootIsDir bool) string {
	if !rootIsDir {
		return strings.TrimSuffix(filepath.Base(path), ".py")
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return strings.TrimSuffix(filepath.Base(path), ".py")
	}

	parts := strings.Split(rel, string(os.PathSeparator))
	parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], ".py")

	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return filepath.Base(root)
	}

	return strings.Join(parts, ".")
}
