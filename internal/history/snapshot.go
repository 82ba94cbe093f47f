package history

import "time"

const SchemaVersion = 1

// Snapshot is one recorded scan of a project: headline counts only,
// enough to chart dependency health over time without storing the graph.
type Snapshot struct {
	ScanID          string    `json:"scan_id"`
	ProjectKey      string    `json:"project_key"`
	SchemaVersion   int       `json:"schema_version"`
	Timestamp       time.Time `json:"timestamp"`
	FileCount       int       `json:"file_count"`
	ModuleCount     int       `json:"module_count"`
	EdgeCount       int       `json:"edge_count"`
	CycleCount      int       `json:"cycle_count"`
	OrphanCount     int       `json:"orphan_count"`
	ParseErrorCount int       `json:"parse_error_count"`
	MeanInstability float64   `json:"mean_instability"`
	ScanSeconds     float64   `json:"scan_seconds"`
}
