// Package formatter renders analysis results for terminal output.
package formatter

import (
	"github.com/pat-analysis/pkg/model"
	"github.com/pat-analysis/pkg/utils"
)

// ResultFormatter is the interface for rendering analysis results.
type ResultFormatter interface {
	// Format outputs the analysis result to the logger.
	Format(resp *model.AnalysisResponse, log utils.Logger)

	// FormatSummary returns a summary map for serialization.
	FormatSummary(resp *model.AnalysisResponse) map[string]interface{}

	// SupportedTypes returns the analysis types this formatter handles.
	SupportedTypes() []model.AnalysisType
}

// Registry manages formatter instances.
type Registry struct {
	formatters map[model.AnalysisType]ResultFormatter
	fallback   ResultFormatter
}

// NewRegistry creates a registry with the default formatters.
func NewRegistry() *Registry {
	r := &Registry{
		formatters: make(map[model.AnalysisType]ResultFormatter),
		fallback:   &DefaultFormatter{},
	}

	r.Register(&GraphsFormatter{})
	r.Register(&TrendlineFormatter{})
	r.Register(&RankFormatter{})
	r.Register(&FalseSharingFormatter{})
	r.Register(&FaultsAtFormatter{})

	return r
}

// Register registers a formatter for its supported types.
func (r *Registry) Register(f ResultFormatter) {
	for _, t := range f.SupportedTypes() {
		r.formatters[t] = f
	}
}

// Get returns the formatter for an analysis type.
func (r *Registry) Get(t model.AnalysisType) ResultFormatter {
	if f, ok := r.formatters[t]; ok {
		return f
	}
	return r.fallback
}

// Format renders the response with the matching formatter.
func (r *Registry) Format(resp *model.AnalysisResponse, log utils.Logger) {
	if resp == nil {
		return
	}
	if resp.Data == nil {
		r.fallback.Format(resp, log)
		return
	}
	r.Get(resp.Data.Type()).Format(resp, log)
}

// FormatSummary returns a summary map with the matching formatter.
func (r *Registry) FormatSummary(resp *model.AnalysisResponse) map[string]interface{} {
	if resp == nil {
		return nil
	}
	if resp.Data == nil {
		return r.fallback.FormatSummary(resp)
	}
	return r.Get(resp.Data.Type()).FormatSummary(resp)
}
