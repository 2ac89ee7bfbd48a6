package formatter

import (
	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// FaultsAtFormatter renders per-address fault counts for one location.
type FaultsAtFormatter struct{}

// SupportedTypes returns the faults-at analysis type.
func (f *FaultsAtFormatter) SupportedTypes() []model.AnalysisType {
	return []model.AnalysisType{model.AnalysisFaultsAt}
}

func faultsAtData(resp *model.AnalysisResponse) *model.FaultsAtData {
	switch data := resp.Data.(type) {
	case *model.FaultsAtData:
		return data
	case model.FaultsAtData:
		return &data
	default:
		return nil
	}
}

// Format prints faulting addresses for the target location.
func (f *FaultsAtFormatter) Format(resp *model.AnalysisResponse, log utils.Logger) {
	formatHeader(resp, log)

	data := faultsAtData(resp)
	if data == nil {
		return
	}

	log.Info("%d faults at %s", data.Total, data.Location)
	for _, ac := range data.Addresses {
		log.Info("  0x%012x: %d", ac.Addr, ac.Count)
	}
	log.Info("")

	formatOutputFiles(resp, log)
}

// FormatSummary returns a summary map for serialization.
func (f *FaultsAtFormatter) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	summary := map[string]interface{}{
		"task_uuid": resp.TaskUUID,
		"type":      resp.Type.String(),
	}
	if data := faultsAtData(resp); data != nil {
		summary["location"] = data.Location
		summary["total"] = data.Total
		summary["addresses"] = len(data.Addresses)
	}
	return summary
}
