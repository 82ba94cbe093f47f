package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"depmap/internal/config"
	"depmap/internal/graph"
	"depmap/internal/history"
	"depmap/internal/observability"
	"depmap/internal/parser"
	"depmap/internal/report"
	"depmap/internal/resolver"
	"depmap/internal/scan"
	"depmap/internal/watcher"
)

type App struct {
	cfg        *config.Config
	scanner    *scan.Scanner
	result     *scan.Result
	teaProgram *tea.Program
}

func newApp(cfg *config.Config) (*App, error) {
	p := parser.NewParser(parser.NewGrammarLoader())
	scanner, err := scan.NewScanner(p, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}
	return &App{cfg: cfg, scanner: scanner}, nil
}

func (a *App) scan(ctx context.Context, path string) (*scan.Result, error) {
	result, err := a.scanner.Scan(ctx, path)
	if err != nil {
		return nil, err
	}
	a.result = result
	slog.Debug("scan complete",
		"path", result.RootPath,
		"files", result.TotalFiles,
		"modules", result.Graph.NodeCount(),
		"edges", result.Graph.EdgeCount(),
		"parse_errors", result.ParseErrors,
		"elapsed", result.Elapsed)
	a.recordSnapshot(result)
	return result, nil
}

// recordSnapshot appends headline counts to the history database.
// History is best-effort; a broken store never fails the scan.
func (a *App) recordSnapshot(result *scan.Result) {
	if a.cfg.History.Path == "" {
		return
	}

	store, err := history.Open(a.cfg.History.Path)
	if err != nil {
		slog.Warn("history store unavailable", "path", a.cfg.History.Path, "error", err)
		return
	}
	defer store.Close()

	g := result.Graph
	cycles := g.FindCycles(a.cfg.Analysis.MaxCycleLength)
	metrics, _ := g.Metrics(graph.SortName)

	mean := 0.0
	if len(metrics) > 0 {
		sum := 0.0
		for _, m := range metrics {
			sum += m.Instability
		}
		mean = sum / float64(len(metrics))
	}

	snapshot, err := store.SaveSnapshot(history.Snapshot{
		ProjectKey:      result.RootPath,
		FileCount:       result.TotalFiles,
		ModuleCount:     g.NodeCount(),
		EdgeCount:       g.EdgeCount(),
		CycleCount:      len(cycles),
		OrphanCount:     len(g.Orphans()),
		ParseErrorCount: result.ParseErrors,
		MeanInstability: mean,
		ScanSeconds:     result.Elapsed.Seconds(),
	})
	if err != nil {
		slog.Warn("failed to record scan snapshot", "error", err)
		return
	}
	slog.Debug("scan snapshot recorded", "scan_id", snapshot.ScanID)
}

func cmdScan(args []string) int {
	fs, cf := newFlagSet("scan")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap scan [flags] <path>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	cycles := result.Graph.FindCycles(cfg.Analysis.MaxCycleLength)
	fmt.Printf("Scanned %s\n", result.RootPath)
	fmt.Printf("  Files:        %d\n", result.TotalFiles)
	fmt.Printf("  Modules:      %d\n", result.Graph.NodeCount())
	fmt.Printf("  Dependencies: %d\n", result.Graph.EdgeCount())
	fmt.Printf("  Cycles:       %d\n", len(cycles))
	fmt.Printf("  Orphans:      %d\n", len(result.Graph.Orphans()))
	fmt.Printf("  Parse errors: %d\n", result.ParseErrors)
	fmt.Printf("  Elapsed:      %.3fs\n", result.Elapsed.Seconds())
	return 0
}

func cmdTree(args []string) int {
	fs, cf := newFlagSet("tree")
	module := fs.String("module", "", "Render the tree for one module only")
	depth := fs.Int("depth", 0, "Maximum tree depth (0 uses the configured default)")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap tree [flags] <path>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	maxDepth := cfg.Analysis.MaxTreeDepth
	if *depth > 0 {
		maxDepth = *depth
	}
	fmt.Println(result.Graph.RenderTree(*module, maxDepth))
	return 0
}

func cmdCircular(args []string) int {
	fs, cf := newFlagSet("circular")
	maxLen := fs.Int("max-length", 0, "Maximum cycle length to report (0 uses the configured default)")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap circular [flags] <path>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	limit := cfg.Analysis.MaxCycleLength
	if *maxLen > 0 {
		limit = *maxLen
	}
	cycles := result.Graph.FindCycles(limit)
	if len(cycles) == 0 {
		fmt.Println("[OK] No circular imports detected!")
		return 0
	}

	fmt.Printf("[!] Found %d circular import chain(s):\n\n", len(cycles))
	for i, cycle := range cycles {
		fmt.Printf("  Cycle %d: %s\n", i+1, cycle.String())
	}
	return 2
}

func cmdMetrics(args []string) int {
	fs, cf := newFlagSet("metrics")
	sortKey := fs.String("sort", graph.SortInstability, "Sort key: instability, fan_in, fan_out or name")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap metrics [flags] <path>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	metrics, err := result.Graph.Metrics(*sortKey)
	if err != nil {
		return fail(err)
	}
	if len(metrics) == 0 {
		fmt.Println("(no modules to analyze)")
		return 0
	}

	fmt.Printf("%-40s %7s %8s %8s\n", "Module", "Fan-In", "Fan-Out", "Instab.")
	fmt.Println(strings.Repeat("-", 66))
	for _, m := range metrics {
		fmt.Printf("%-40s %7d %8d %8.3f\n", m.Unit, m.FanIn, m.FanOut, m.Instability)
	}
	return 0
}

func cmdOrphans(args []string) int {
	fs, cf := newFlagSet("orphans")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap orphans [flags] <path>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	orphans := result.Graph.Orphans()
	if len(orphans) == 0 {
		fmt.Println("(all modules are imported by at least one other)")
		return 0
	}
	for _, name := range orphans {
		label := "standalone / potential dead code"
		if result.Graph.FanOut(name) > 0 {
			label = "entry point / orchestrator"
		}
		fmt.Printf("%s (%s)\n", name, label)
	}
	return 0
}

func cmdReport(args []string) int {
	fs, cf := newFlagSet("report")
	formatName := fs.String("format", "text", "Report format: text, json or markdown")
	outPath := fs.String("o", "", "Write the report to a file instead of stdout")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap report [flags] <path>")
		return 1
	}

	format, err := report.ParseFormat(*formatName)
	if err != nil {
		return fail(err)
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	assembler := report.NewAssembler(cfg.Analysis.MaxTreeDepth, cfg.Analysis.MaxCycleLength)
	out, err := assembler.Generate(result, format)
	if err != nil {
		return fail(err)
	}

	target := *outPath
	if target == "" {
		target = cfg.Output.Report
	}
	if target != "" {
		if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
			return fail(err)
		}
		fmt.Printf("Report written to %s\n", target)
		return 0
	}
	fmt.Print(out)
	return 0
}

func cmdGraph(args []string) int {
	fs, cf := newFlagSet("graph")
	outPath := fs.String("o", "", "Output DOT file (default from config, else dependencies.dot)")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap graph [flags] <path>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	cycles := result.Graph.FindCycles(cfg.Analysis.MaxCycleLength)
	dot := report.NewDOTGenerator(result.Graph, result.Units).Generate(cycles)

	target := *outPath
	if target == "" {
		target = cfg.Output.DOT
	}
	if target == "" {
		target = "dependencies.dot"
	}
	if err := os.WriteFile(target, []byte(dot), 0o644); err != nil {
		return fail(err)
	}
	fmt.Printf("DOT graph written to %s\n", target)
	fmt.Printf("Render with: dot -Tsvg %s -o dependencies.svg\n", target)
	return 0
}

func cmdImports(args []string) int {
	fs, cf := newFlagSet("imports")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: depmap imports [flags] <path> <module>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	name := fs.Arg(1)
	imports, err := result.Graph.ImportsOf(name)
	if err != nil {
		return fail(err)
	}
	importers, err := result.Graph.ImportersOf(name)
	if err != nil {
		return fail(err)
	}

	topLevels := make(map[string]bool)
	for unitName := range result.Units {
		topLevels[strings.SplitN(unitName, ".", 2)[0]] = true
	}
	classified := resolver.Classify(result.Units[name].Imports, topLevels)

	fmt.Printf("Module: %s\n\n", name)
	printImportBucket("Stdlib imports", classified.Stdlib)
	printImportBucket("Third-party imports", classified.ThirdParty)
	printImportBucket("Relative imports", classified.Relative)
	printImportBucket("Local imports (resolved)", imports)
	printImportBucket("Imported by", importers)
	return 0
}

func printImportBucket(title string, names []string) {
	fmt.Printf("%s (%d):\n", title, len(names))
	if len(names) == 0 {
		fmt.Println("  (none)")
	}
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
}

func cmdTrace(args []string) int {
	fs, cf := newFlagSet("trace")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: depmap trace [flags] <path> <from> <to>")
		return 1
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, fs.Arg(0))
	if err != nil {
		return fail(err)
	}

	from, to := fs.Arg(1), fs.Arg(2)
	chain, err := result.Graph.FindImportChain(from, to)
	if err != nil {
		return fail(err)
	}
	if chain == nil {
		fmt.Printf("No import chain found from %s to %s\n", from, to)
		return 1
	}

	fmt.Printf("Import chain: %s -> %s\n\n", from, to)
	fmt.Println(strings.Join(chain, "\n  -> "))
	return 0
}

func cmdHistory(args []string) int {
	fs, cf := newFlagSet("history")
	project := fs.String("project", "", "Only show snapshots for this project key (a scan root path)")
	since := fs.Duration("since", 0, "Only show snapshots newer than this age (e.g. 168h)")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if cfg.History.Path == "" {
		fmt.Fprintln(os.Stderr, "history is not configured; set history.path in depmap.toml")
		return 1
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fail(err)
	}
	defer store.Close()

	var cutoff time.Time
	if *since > 0 {
		cutoff = time.Now().Add(-*since)
	}

	snapshots, err := store.LoadSnapshots(*project, cutoff)
	if err != nil {
		return fail(err)
	}
	if len(snapshots) == 0 {
		fmt.Println("(no snapshots recorded)")
		return 0
	}

	fmt.Printf("%-20s %6s %8s %6s %7s %8s %8s\n",
		"Timestamp", "Files", "Modules", "Edges", "Cycles", "Orphans", "Instab.")
	fmt.Println(strings.Repeat("-", 70))
	for _, s := range snapshots {
		fmt.Printf("%-20s %6d %8d %6d %7d %8d %8.3f\n",
			s.Timestamp.Format("2006-01-02 15:04:05"),
			s.FileCount, s.ModuleCount, s.EdgeCount,
			s.CycleCount, s.OrphanCount, s.MeanInstability)
	}
	return 0
}

func cmdWatch(args []string) int {
	fs, cf := newFlagSet("watch")
	ui := fs.Bool("ui", false, "Enable terminal UI mode")
	cfg, err := setup(fs, cf, args, false)
	if err != nil {
		return fail(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: depmap watch [flags] <path>")
		return 1
	}
	root := fs.Arg(0)
	if *ui {
		setupLogging(cf.verbose, true)
	}

	ctx := context.Background()
	defer initTracing(ctx, cfg)()

	if cfg.Metrics.Listen != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				slog.Error("metrics endpoint failed", "listen", cfg.Metrics.Listen, "error", err)
			}
		}()
	}

	app, err := newApp(cfg)
	if err != nil {
		return fail(err)
	}
	result, err := app.scan(ctx, root)
	if err != nil {
		return fail(err)
	}
	if !*ui {
		app.printWatchSummary(result, 0)
	}

	limiter := watcher.NewRescanLimiter(cfg.Watch.RescansPerSec, cfg.Watch.RescanBurst)
	onChange := func(paths []string) {
		slog.Info("detected changes", "count", len(paths))
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		observability.RescanTotal.Inc()

		start := time.Now()
		rescanned, err := app.scan(ctx, root)
		if err != nil {
			slog.Error("rescan failed", "error", err)
			return
		}

		if app.teaProgram != nil {
			cycles := rescanned.Graph.FindCycles(cfg.Analysis.MaxCycleLength)
			app.teaProgram.Send(updateMsg{
				cycles:      cycles,
				orphans:     rescanned.Graph.Orphans(),
				parseErrors: parseErrorLines(rescanned),
				moduleCount: rescanned.Graph.NodeCount(),
				fileCount:   rescanned.TotalFiles,
			})
		} else {
			app.printWatchSummary(rescanned, time.Since(start))
		}
	}

	w, err := watcher.New(cfg.Watch.Debounce, cfg.Exclude.Dirs, cfg.Exclude.Files, onChange)
	if err != nil {
		return fail(err)
	}
	defer w.Close()
	if err := w.Watch(result.RootPath); err != nil {
		return fail(err)
	}

	if *ui {
		if err := app.runUI(); err != nil {
			return fail(err)
		}
		return 0
	}

	select {}
}

func (a *App) printWatchSummary(result *scan.Result, duration time.Duration) {
	g := result.Graph
	cycles := g.FindCycles(a.cfg.Analysis.MaxCycleLength)

	fmt.Println(strings.Repeat("-", 40))
	if duration > 0 {
		fmt.Printf("Update: %d files, %d modules in %v\n", result.TotalFiles, g.NodeCount(), duration.Round(time.Millisecond))
	} else {
		fmt.Printf("Watching: %d files, %d modules\n", result.TotalFiles, g.NodeCount())
	}

	if len(cycles) > 0 {
		fmt.Printf("[!] FOUND %d CIRCULAR IMPORTS:\n", len(cycles))
		for _, c := range cycles {
			fmt.Printf("   %s\n", c.String())
		}
	} else {
		fmt.Println("[OK] No circular imports found.")
	}
	if result.ParseErrors > 0 {
		fmt.Printf("[!] %d file(s) failed to parse.\n", result.ParseErrors)
	}
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) runUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		result := a.result
		if result == nil {
			return
		}
		cycles := result.Graph.FindCycles(a.cfg.Analysis.MaxCycleLength)
		p.Send(updateMsg{
			cycles:      cycles,
			orphans:     result.Graph.Orphans(),
			parseErrors: parseErrorLines(result),
			moduleCount: result.Graph.NodeCount(),
			fileCount:   result.TotalFiles,
		})
	}()

	_, err := p.Run()
	return err
}

func parseErrorLines(result *scan.Result) []string {
	var lines []string
	for name, unit := range result.Units {
		if unit.ParseError != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", name, unit.ParseError))
		}
	}
	sort.Strings(lines)
	return lines
}
