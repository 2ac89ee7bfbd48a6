package model

import "github.com/pat-analysis/internal/accessgraph"

// AnalysisData is the typed payload of an analysis result.
type AnalysisData interface {
	Type() AnalysisType
}

// GraphsData holds the per-region access graphs of a trace.
type GraphsData struct {
	Variant GraphVariant               `json:"variant"`
	Regions map[int]*accessgraph.Graph `json:"regions"`
}

// Type implements AnalysisData.
func (GraphsData) Type() AnalysisType { return AnalysisGraphs }

// TrendlineData holds fault counts bucketed into fixed-width time chunks.
type TrendlineData struct {
	// ChunkSize is the width of each chunk in trace time units.
	ChunkSize float64 `json:"chunk_size"`
	// Bounds holds the upper bound of each chunk. The last bound is
	// nudged slightly past the trace end so the final fault lands in
	// the last chunk.
	Bounds []float64 `json:"bounds"`
	// Chunks holds the total fault count per chunk.
	Chunks []int64 `json:"chunks"`
	// PerThread holds per-thread fault counts per chunk, keyed by TID.
	// Only populated when requested.
	PerThread map[int][]int64 `json:"per_thread,omitempty"`
}

// Type implements AnalysisData.
func (TrendlineData) Type() AnalysisType { return AnalysisTrendline }

// RankRow is a single entry in a ranked fault breakdown.
type RankRow struct {
	Name          string `json:"name"`
	Reads         int64  `json:"reads"`
	Writes        int64  `json:"writes"`
	Invalidations int64  `json:"invalidations"`
	Total         int64  `json:"total"`
}

// SymbolRankData ranks symbols by the faults they caused.
type SymbolRankData struct {
	Rows []RankRow `json:"rows"`
}

// Type implements AnalysisData.
func (SymbolRankData) Type() AnalysisType { return AnalysisSymbols }

// LocationRankData ranks source locations by the faults they caused.
type LocationRankData struct {
	Rows []RankRow `json:"rows"`
}

// Type implements AnalysisData.
func (LocationRankData) Type() AnalysisType { return AnalysisLocations }

// FalseSharingPage describes suspected false sharing on one page.
type FalseSharingPage struct {
	Page        uint64   `json:"page"`
	Faults      int64    `json:"faults"`
	FalseFaults int64    `json:"false_faults"`
	Symbols     []string `json:"symbols"`
}

// FalseSharingData holds pages ranked by likely-unnecessary faults.
type FalseSharingData struct {
	Pages []FalseSharingPage `json:"pages"`
}

// Type implements AnalysisData.
func (FalseSharingData) Type() AnalysisType { return AnalysisFalseSharing }

// AddrCount pairs a faulting data address with its fault count.
type AddrCount struct {
	Addr  uint64 `json:"addr"`
	Count int64  `json:"count"`
}

// FaultsAtData holds the data addresses faulted on from one source location.
type FaultsAtData struct {
	Location  string      `json:"location"`
	Total     int64       `json:"total"`
	Addresses []AddrCount `json:"addresses"`
}

// Type implements AnalysisData.
func (FaultsAtData) Type() AnalysisType { return AnalysisFaultsAt }
