package formatter

import (
	"strings"

	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// FalseSharingFormatter renders false sharing detection results.
type FalseSharingFormatter struct{}

// SupportedTypes returns the false sharing analysis type.
func (f *FalseSharingFormatter) SupportedTypes() []model.AnalysisType {
	return []model.AnalysisType{model.AnalysisFalseSharing}
}

func falseSharingData(resp *model.AnalysisResponse) *model.FalseSharingData {
	switch data := resp.Data.(type) {
	case *model.FalseSharingData:
		return data
	case model.FalseSharingData:
		return &data
	default:
		return nil
	}
}

// Format prints pages with suspected false sharing.
func (f *FalseSharingFormatter) Format(resp *model.AnalysisResponse, log utils.Logger) {
	formatHeader(resp, log)

	data := falseSharingData(resp)
	if data == nil {
		return
	}

	printed := 0
	for _, page := range data.Pages {
		if page.FalseFaults == 0 {
			continue
		}
		log.Info("page 0x%x: %d of %d faults from false sharing", page.Page, page.FalseFaults, page.Faults)
		log.Info("  implicated: %s", strings.Join(page.Symbols, ", "))
		printed++
	}
	if printed == 0 {
		log.Info("No false sharing detected (%d pages tracked)", len(data.Pages))
	}
	log.Info("")

	formatOutputFiles(resp, log)
}

// FormatSummary returns a summary map for serialization.
func (f *FalseSharingFormatter) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	summary := map[string]interface{}{
		"task_uuid": resp.TaskUUID,
		"type":      resp.Type.String(),
	}
	if data := falseSharingData(resp); data != nil {
		var falseFaults int64
		affected := 0
		for _, page := range data.Pages {
			falseFaults += page.FalseFaults
			if page.FalseFaults > 0 {
				affected++
			}
		}
		summary["pages_tracked"] = len(data.Pages)
		summary["pages_affected"] = affected
		summary["false_faults"] = falseFaults
	}
	return summary
}
