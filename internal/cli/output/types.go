package output

import "github.com/leapstack-labs/doctrace/internal/diag"

// ScanOutput is the JSON form of a report-writing command.
type ScanOutput struct {
	RunID      string         `json:"run_id"`
	InputDir   string         `json:"input_dir"`
	Documents  int            `json:"documents"`
	Skipped    int            `json:"skipped"`
	Keys       int            `json:"keys"`
	Edges      int            `json:"edges"`
	RiskRows   int            `json:"risk_rows"`
	Outputs    []ReportOutput `json:"outputs"`
	Warnings   []diag.Warning `json:"warnings"`
	DurationMS int64          `json:"duration_ms"`
}

// ReportOutput describes one written report.
type ReportOutput struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// GraphOutput is the JSON form of the graph command.
type GraphOutput struct {
	Nodes    []GraphNode `json:"nodes"`
	Edges    int         `json:"edges"`
	Roots    []string    `json:"roots"`
	Leaves   []string    `json:"leaves"`
	Dangling []string    `json:"dangling"`
	HasCycle bool        `json:"has_cycle"`
	Cycle    []string    `json:"cycle,omitempty"`
	Focus    *GraphFocus `json:"focus,omitempty"`
}

// GraphFocus is the transitive neighbourhood of one key.
type GraphFocus struct {
	Key        string   `json:"key"`
	Upstream   []string `json:"upstream"`
	Downstream []string `json:"downstream"`
}

// GraphNode is one key with both sides of its references.
type GraphNode struct {
	Key          string   `json:"key"`
	OnDisk       bool     `json:"on_disk"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// ExportOutput is the JSON form of the export command.
type ExportOutput struct {
	RunID        string `json:"run_id"`
	Database     string `json:"database"`
	Documents    int    `json:"documents"`
	Dependencies int    `json:"dependencies"`
	Risks        int    `json:"risks"`
	Warnings     int    `json:"warnings"`
}
