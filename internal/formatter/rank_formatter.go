package formatter

import (
	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// maxRankRows caps the number of rows printed to the terminal.
const maxRankRows = 20

// RankFormatter renders symbol and source location rankings.
type RankFormatter struct{}

// SupportedTypes returns the ranking analysis types.
func (f *RankFormatter) SupportedTypes() []model.AnalysisType {
	return []model.AnalysisType{model.AnalysisSymbols, model.AnalysisLocations}
}

func rankRows(resp *model.AnalysisResponse) []model.RankRow {
	switch data := resp.Data.(type) {
	case *model.SymbolRankData:
		return data.Rows
	case *model.LocationRankData:
		return data.Rows
	case model.SymbolRankData:
		return data.Rows
	case model.LocationRankData:
		return data.Rows
	default:
		return nil
	}
}

// Format prints the ranking as a table.
func (f *RankFormatter) Format(resp *model.AnalysisResponse, log utils.Logger) {
	formatHeader(resp, log)

	rows := rankRows(resp)
	label := "Symbol"
	if resp.Type == model.AnalysisLocations {
		label = "Location"
	}

	log.Info("%8s %8s %8s %8s  %s", "Total", "Reads", "Writes", "Invals", label)
	for i, row := range rows {
		if i >= maxRankRows {
			log.Info("  ... and %d more", len(rows)-maxRankRows)
			break
		}
		log.Info("%8d %8d %8d %8d  %s",
			row.Total, row.Reads, row.Writes, row.Invalidations, truncateString(row.Name, 60))
	}
	log.Info("")

	formatOutputFiles(resp, log)
}

// FormatSummary returns a summary map for serialization.
func (f *RankFormatter) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	rows := rankRows(resp)
	var total int64
	for _, row := range rows {
		total += row.Total
	}
	return map[string]interface{}{
		"task_uuid":    resp.TaskUUID,
		"type":         resp.Type.String(),
		"rows":         len(rows),
		"total_faults": total,
	}
}
