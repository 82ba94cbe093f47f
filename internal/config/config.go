package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Exclude  Exclude  `toml:"exclude"`
	Analysis Analysis `toml:"analysis"`
	Output   Output   `toml:"output"`
	History  History  `toml:"history"`
	Watch    Watch    `toml:"watch"`
	Metrics  Metrics  `toml:"metrics"`
	Tracing  Tracing  `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Analysis struct {
	MaxTreeDepth   int `toml:"max_tree_depth"`
	MaxCycleLength int `toml:"max_cycle_length"`
}

type Output struct {
	DOT    string `toml:"dot"`
	Report string `toml:"report"`
}

type History struct {
	Path string `toml:"path"`
}

type Watch struct {
	Debounce      time.Duration `toml:"debounce"`
	RescansPerSec float64       `toml:"rescans_per_sec"`
	RescanBurst   int           `toml:"rescan_burst"`
}

type Metrics struct {
	Listen string `toml:"listen"` // e.g. ":9109"; empty disables the endpoint
}

type Tracing struct {
	Endpoint string `toml:"endpoint"` // OTLP gRPC endpoint; empty disables tracing
}

// Default returns the configuration used when no file is present. The
// exclusion list matches what Python tooling conventionally skips.
func Default() *Config {
	return &Config{
		Exclude: Exclude{
			Dirs: []string{
				"__pycache__", ".git", ".venv", "venv", "env",
				"node_modules", ".tox", ".eggs", "build", "dist",
				".pytest_cache", ".mypy_cache",
			},
		},
		Analysis: Analysis{
			MaxTreeDepth:   10,
			MaxCycleLength: 20,
		},
		Watch: Watch{
			Debounce:      500 * time.Millisecond,
			RescansPerSec: 2,
			RescanBurst:   1,
		},
	}
}

// Load reads a TOML config file and fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}

	if cfg.Analysis.MaxTreeDepth <= 0 {
		cfg.Analysis.MaxTreeDepth = 10
	}
	if cfg.Analysis.MaxCycleLength <= 0 {
		cfg.Analysis.MaxCycleLength = 20
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescansPerSec <= 0 {
		cfg.Watch.RescansPerSec = 2
	}
	if cfg.Watch.RescanBurst <= 0 {
		cfg.Watch.RescanBurst = 1
	}

	return cfg, nil
}
