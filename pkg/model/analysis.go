// Package model defines the core data structures used throughout the application.
package model

import "fmt"

// AnalysisType represents the type of trace analysis.
type AnalysisType int

const (
	AnalysisGraphs       AnalysisType = 0 // Per-region access graphs
	AnalysisTrendline    AnalysisType = 1 // Fault counts over time chunks
	AnalysisSymbols      AnalysisType = 2 // Problem symbol ranking
	AnalysisLocations    AnalysisType = 3 // Fault source location ranking
	AnalysisFalseSharing AnalysisType = 4 // False sharing detection
	AnalysisFaultsAt     AnalysisType = 5 // Faulting addresses at a source location
)

// String returns the string representation of AnalysisType.
func (t AnalysisType) String() string {
	switch t {
	case AnalysisGraphs:
		return "graphs"
	case AnalysisTrendline:
		return "trendline"
	case AnalysisSymbols:
		return "symbols"
	case AnalysisLocations:
		return "locations"
	case AnalysisFalseSharing:
		return "falseshare"
	case AnalysisFaultsAt:
		return "faults-at"
	default:
		return "unknown"
	}
}

// ParseAnalysisType parses the string form of an analysis type.
func ParseAnalysisType(s string) (AnalysisType, error) {
	switch s {
	case "graphs":
		return AnalysisGraphs, nil
	case "trendline":
		return AnalysisTrendline, nil
	case "symbols":
		return AnalysisSymbols, nil
	case "falseshare":
		return AnalysisFalseSharing, nil
	case "locations":
		return AnalysisLocations, nil
	case "faults-at":
		return AnalysisFaultsAt, nil
	default:
		return AnalysisGraphs, fmt.Errorf("unknown analysis type: %q", s)
	}
}

// GraphVariant selects how access graphs are constructed.
type GraphVariant string

const (
	// GraphVariantPlain builds bipartite thread-to-page graphs.
	GraphVariantPlain GraphVariant = "plain"
	// GraphVariantInterference builds thread-to-thread graphs weighted
	// by overlapping page accesses.
	GraphVariantInterference GraphVariant = "interference"
)

// AnalysisRequest describes a single trace analysis to run.
type AnalysisRequest struct {
	TaskUUID string
	Type     AnalysisType

	// TraceFile is a local path to the trace. If empty, TraceKey is
	// downloaded from configured storage instead.
	TraceFile string
	TraceKey  string

	// Optional sidecar files mapping instruction addresses to symbols
	// and source lines. The key variants are fetched from storage.
	SymbolsFile string
	SymbolsKey  string
	LinesFile   string
	LinesKey    string

	OutputDir string

	// Shared entry filters.
	Start   float64
	End     float64
	Nodes   []string
	Pages   []uint64
	Regions []string
	NoCode  bool
	NoData  bool

	// Per-analysis parameters.
	NumChunks    int
	PerThread    bool
	GraphVariant GraphVariant
	Location     string
}

// OutputFile describes a file produced by an analysis.
type OutputFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AnalysisResponse represents the outcome of an analysis.
type AnalysisResponse struct {
	TaskUUID    string       `json:"task_uuid"`
	Type        AnalysisType `json:"type"`
	Data        AnalysisData `json:"data"`
	OutputFiles []OutputFile `json:"output_files,omitempty"`
	Error       string       `json:"error,omitempty"`
}
