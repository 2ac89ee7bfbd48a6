package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/pat-analysis/pkg/errors"
	"github.com/pat-analysis/pkg/model"
)

// GormResultRepository implements ResultRepository using GORM.
type GormResultRepository struct {
	db      *gorm.DB
	version string
}

// NewGormResultRepository creates a new GormResultRepository.
func NewGormResultRepository(db *gorm.DB, version string) *GormResultRepository {
	return &GormResultRepository{db: db, version: version}
}

// SaveResult stores an analysis result, upserting on (tid, type).
func (r *GormResultRepository) SaveResult(ctx context.Context, resp *model.AnalysisResponse, traceFile string) error {
	resultJSON, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	record := &PATAnalysisResult{
		TID:       resp.TaskUUID,
		Type:      resp.Type,
		TraceFile: traceFile,
		Result:    resultJSON,
		Version:   r.version,
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tid"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"trace_file", "result", "version", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}

	return nil
}

// GetResult retrieves the stored result for a task and analysis type.
func (r *GormResultRepository) GetResult(ctx context.Context, taskUUID string, analysisType model.AnalysisType) (*StoredResult, error) {
	var record PATAnalysisResult

	err := r.db.WithContext(ctx).
		Where("tid = ? AND type = ?", taskUUID, analysisType).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Newf(apperrors.CodeNotFound,
				"no %s result for task %s", analysisType, taskUUID)
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return record.ToStored(), nil
}

// ListResults retrieves all stored results for a task, newest first.
func (r *GormResultRepository) ListResults(ctx context.Context, taskUUID string) ([]*StoredResult, error) {
	var records []PATAnalysisResult

	err := r.db.WithContext(ctx).
		Where("tid = ?", taskUUID).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	results := make([]*StoredResult, len(records))
	for i := range records {
		results[i] = records[i].ToStored()
	}
	return results, nil
}

// DeleteResults removes all stored results for a task.
func (r *GormResultRepository) DeleteResults(ctx context.Context, taskUUID string) error {
	err := r.db.WithContext(ctx).
		Where("tid = ?", taskUUID).
		Delete(&PATAnalysisResult{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete results: %w", err)
	}
	return nil
}
