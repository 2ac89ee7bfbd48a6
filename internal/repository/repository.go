package repository

import (
	"context"

	"github.com/pat-analysis/pkg/model"
)

// ResultRepository stores and retrieves analysis results.
type ResultRepository interface {
	// SaveResult stores the result of one analysis run, replacing any
	// previous result for the same task and analysis type.
	SaveResult(ctx context.Context, resp *model.AnalysisResponse, traceFile string) error

	// GetResult retrieves the stored result for a task and analysis type.
	GetResult(ctx context.Context, taskUUID string, analysisType model.AnalysisType) (*StoredResult, error)

	// ListResults retrieves all stored results for a task.
	ListResults(ctx context.Context, taskUUID string) ([]*StoredResult, error)

	// DeleteResults removes all stored results for a task.
	DeleteResults(ctx context.Context, taskUUID string) error
}
