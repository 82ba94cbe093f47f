package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
[exclude]
dirs = [".git", "vendor"]
files = ["conftest.py"]

[analysis]
max_tree_depth = 5
max_cycle_length = 8

[output]
dot = "graph.dot"
report = "report.md"

[history]
path = "depmap.db"

[watch]
debounce = "1s"
rescans_per_sec = 4.0
rescan_burst = 2

[metrics]
listen = ":9109"

[tracing]
endpoint = "localhost:4317"
`
	path := filepath.Join(t.TempDir(), "depmap.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Exclude.Dirs) != 2 || cfg.Exclude.Dirs[1] != "vendor" {
		t.Errorf("Unexpected exclude dirs: %v", cfg.Exclude.Dirs)
	}
	if cfg.Analysis.MaxTreeDepth != 5 {
		t.Errorf("MaxTreeDepth = %d, want 5", cfg.Analysis.MaxTreeDepth)
	}
	if cfg.Analysis.MaxCycleLength != 8 {
		t.Errorf("MaxCycleLength = %d, want 8", cfg.Analysis.MaxCycleLength)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
	if cfg.Watch.RescansPerSec != 4.0 {
		t.Errorf("RescansPerSec = %v, want 4.0", cfg.Watch.RescansPerSec)
	}
	if cfg.Output.DOT != "graph.dot" {
		t.Errorf("DOT = %s, want graph.dot", cfg.Output.DOT)
	}
	if cfg.History.Path != "depmap.db" {
		t.Errorf("History path = %s", cfg.History.Path)
	}
	if cfg.Metrics.Listen != ":9109" {
		t.Errorf("Metrics listen = %s", cfg.Metrics.Listen)
	}
	if cfg.Tracing.Endpoint != "localhost:4317" {
		t.Errorf("Tracing endpoint = %s", cfg.Tracing.Endpoint)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depmap.toml")
	if err := os.WriteFile(path, []byte("[output]\ndot = \"deps.dot\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Output.DOT != "deps.dot" {
		t.Errorf("DOT = %s", cfg.Output.DOT)
	}
	if cfg.Analysis.MaxTreeDepth != 10 {
		t.Errorf("Expected default MaxTreeDepth 10, got %d", cfg.Analysis.MaxTreeDepth)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Expected default exclusion list")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestDefaultExcludesPycache(t *testing.T) {
	cfg := Default()
	found := false
	for _, d := range cfg.Exclude.Dirs {
		if d == "__pycache__" {
			found = true
		}
	}
	if !found {
		t.Error("Expected __pycache__ in default exclusions")
	}
}
