package formatter

import (
	"os"

	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// DefaultFormatter is a fallback for unknown data types.
type DefaultFormatter struct{}

// SupportedTypes returns nil; this is the fallback formatter.
func (f *DefaultFormatter) SupportedTypes() []model.AnalysisType {
	return nil
}

// Format outputs a generic result header to the logger.
func (f *DefaultFormatter) Format(resp *model.AnalysisResponse, log utils.Logger) {
	formatHeader(resp, log)
	formatOutputFiles(resp, log)
}

// FormatSummary returns a summary map for serialization.
func (f *DefaultFormatter) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	summary := map[string]interface{}{
		"task_uuid": resp.TaskUUID,
		"type":      resp.Type.String(),
	}
	if resp.Data != nil {
		summary["data_type"] = resp.Data.Type().String()
	}
	summary["output_files"] = resp.OutputFiles
	return summary
}

func formatHeader(resp *model.AnalysisResponse, log utils.Logger) {
	log.Info("=== Analysis Results ===")
	log.Info("Task UUID:  %s", resp.TaskUUID)
	log.Info("Analysis:   %s", resp.Type.String())
	log.Info("")
}

func formatOutputFiles(resp *model.AnalysisResponse, log utils.Logger) {
	if len(resp.OutputFiles) == 0 {
		return
	}
	log.Info("=== Output Files ===")
	for _, file := range resp.OutputFiles {
		log.Info("  %s: %s", file.Name, file.Path)
		if info, err := os.Stat(file.Path); err == nil {
			log.Info("    Size: %d bytes", info.Size())
		}
	}
	log.Info("")
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
