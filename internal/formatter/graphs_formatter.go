package formatter

import (
	"sort"

	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// GraphsFormatter renders per-region access graph summaries.
type GraphsFormatter struct{}

// SupportedTypes returns the graphs analysis type.
func (f *GraphsFormatter) SupportedTypes() []model.AnalysisType {
	return []model.AnalysisType{model.AnalysisGraphs}
}

func graphsData(resp *model.AnalysisResponse) *model.GraphsData {
	switch data := resp.Data.(type) {
	case *model.GraphsData:
		return data
	case model.GraphsData:
		return &data
	default:
		return nil
	}
}

// Format prints node and edge counts per region.
func (f *GraphsFormatter) Format(resp *model.AnalysisResponse, log utils.Logger) {
	formatHeader(resp, log)

	data := graphsData(resp)
	if data == nil {
		return
	}

	regions := make([]int, 0, len(data.Regions))
	for region := range data.Regions {
		regions = append(regions, region)
	}
	sort.Ints(regions)

	log.Info("Found %d regions (%s graphs)", len(regions), data.Variant)
	for _, region := range regions {
		g := data.Regions[region]
		log.Info("  region %d: %d nodes, %d edges, %d accesses",
			region, len(g.Nodes), len(g.Edges), g.NumMappings())
	}
	log.Info("")

	formatOutputFiles(resp, log)
}

// FormatSummary returns a summary map for serialization.
func (f *GraphsFormatter) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	summary := map[string]interface{}{
		"task_uuid": resp.TaskUUID,
		"type":      resp.Type.String(),
	}
	if data := graphsData(resp); data != nil {
		summary["variant"] = string(data.Variant)
		summary["regions"] = len(data.Regions)
	}
	return summary
}
