package formatter

import (
	"sort"

	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// TrendlineFormatter renders fault-frequency trendlines.
type TrendlineFormatter struct{}

// SupportedTypes returns the trendline analysis type.
func (f *TrendlineFormatter) SupportedTypes() []model.AnalysisType {
	return []model.AnalysisType{model.AnalysisTrendline}
}

func trendlineData(resp *model.AnalysisResponse) *model.TrendlineData {
	switch data := resp.Data.(type) {
	case *model.TrendlineData:
		return data
	case model.TrendlineData:
		return &data
	default:
		return nil
	}
}

// Format prints one line per chunk, or per-thread totals.
func (f *TrendlineFormatter) Format(resp *model.AnalysisResponse, log utils.Logger) {
	formatHeader(resp, log)

	data := trendlineData(resp)
	if data == nil {
		return
	}

	log.Info("Chunk size: %.6fs, %d chunks", data.ChunkSize, len(data.Bounds))
	if data.PerThread != nil {
		tids := make([]int, 0, len(data.PerThread))
		for tid := range data.PerThread {
			tids = append(tids, tid)
		}
		sort.Ints(tids)
		for _, tid := range tids {
			var total int64
			for _, c := range data.PerThread[tid] {
				total += c
			}
			log.Info("  thread %d: %d faults", tid, total)
		}
	} else {
		for i, count := range data.Chunks {
			log.Info("  <= %12.6f: %d", data.Bounds[i], count)
		}
	}
	log.Info("")

	formatOutputFiles(resp, log)
}

// FormatSummary returns a summary map for serialization.
func (f *TrendlineFormatter) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	summary := map[string]interface{}{
		"task_uuid": resp.TaskUUID,
		"type":      resp.Type.String(),
	}
	if data := trendlineData(resp); data != nil {
		summary["chunks"] = len(data.Bounds)
		summary["chunk_size"] = data.ChunkSize
		summary["threads"] = len(data.PerThread)
	}
	return summary
}
