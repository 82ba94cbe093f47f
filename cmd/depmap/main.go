package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"depmap/internal/config"
	"depmap/internal/observability"
)

const version = "1.0.0"

const usageText = `depmap - Python import dependency analyzer

Usage: depmap <command> [flags] [arguments]

Commands:
  scan <path>            Scan a project and print a summary
  tree <path>            Print the dependency tree
  circular <path>        Detect circular imports (exit code 2 if found)
  metrics <path>         Print coupling metrics per module
  orphans <path>         List modules nothing imports
  report <path>          Full analysis report (text, json or markdown)
  graph <path>           Export the dependency graph as Graphviz DOT
  imports <path> <mod>   Show what a module imports and who imports it
  trace <path> <a> <b>   Shortest import chain from module a to module b
  history                List recorded scan snapshots
  watch <path>           Rescan on file changes (optionally with a TUI)
  version                Print version and exit

Run 'depmap <command> -h' for command flags.
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usageText)
		return 1
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version", "-version", "--version":
		fmt.Printf("depmap v%s\n", version)
		return 0
	case "help", "-h", "-help", "--help":
		fmt.Print(usageText)
		return 0
	case "scan":
		return cmdScan(rest)
	case "tree":
		return cmdTree(rest)
	case "circular":
		return cmdCircular(rest)
	case "metrics":
		return cmdMetrics(rest)
	case "orphans":
		return cmdOrphans(rest)
	case "report":
		return cmdReport(rest)
	case "graph":
		return cmdGraph(rest)
	case "imports":
		return cmdImports(rest)
	case "trace":
		return cmdTrace(rest)
	case "history":
		return cmdHistory(rest)
	case "watch":
		return cmdWatch(rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usageText)
		return 1
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath string
	verbose    bool
}

func newFlagSet(name string) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cf := &commonFlags{}
	fs.StringVar(&cf.configPath, "config", "./depmap.toml", "Path to config file")
	fs.BoolVar(&cf.verbose, "verbose", false, "Enable verbose logging")
	return fs, cf
}

// setup parses flags, configures logging and loads the config. A missing
// config file at the default path is not an error; defaults apply.
func setup(fs *flag.FlagSet, cf *commonFlags, args []string, logToFile bool) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	setupLogging(cf.verbose, logToFile)

	cfg, err := config.Load(cf.configPath)
	if err != nil {
		if os.IsNotExist(err) && cf.configPath == "./depmap.toml" {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("load config %q: %w", cf.configPath, err)
	}
	return cfg, nil
}

func setupLogging(verbose, toFile bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if toFile {
		// In UI mode, avoid terminal logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err == nil {
				output = f
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// initTracing wires the OTLP exporter when configured. The returned
// shutdown must run before exit so batched spans flush.
func initTracing(ctx context.Context, cfg *config.Config) func() {
	shutdown, err := observability.InitTracing(ctx, cfg.Tracing.Endpoint, version)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
		return func() {}
	}
	return func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("tracing shutdown", "error", err)
		}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "depmap", "depmap.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "depmap", "depmap.log")
	}

	return "depmap.log"
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
