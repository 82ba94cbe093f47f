package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "depmap_scan_seconds",
		Help:    "Time spent scanning a project tree.",
		Buckets: prometheus.DefBuckets,
	})

	ParsingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "depmap_parsing_seconds",
		Help:    "Time spent parsing a single source file.",
		Buckets: prometheus.DefBuckets,
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depmap_graph_nodes_total",
		Help: "Number of units in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depmap_graph_edges_total",
		Help: "Number of edges in the dependency graph.",
	})

	ParseErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depmap_parse_errors_total",
		Help: "Total number of files that failed to parse.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depmap_analysis_seconds",
		Help:    "Time spent on analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depmap_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescanTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depmap_rescan_total",
		Help: "Total number of rescans triggered in watch mode.",
	})
)
