package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/pat-analysis/pkg/errors"
	"github.com/pat-analysis/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&PATAnalysisResult{}))
	return db
}

func sampleResponse(uuid string) *model.AnalysisResponse {
	return &model.AnalysisResponse{
		TaskUUID: uuid,
		Type:     model.AnalysisSymbols,
		Data: &model.SymbolRankData{Rows: []model.RankRow{
			{Name: "counter", Reads: 3, Writes: 2, Total: 5},
		}},
	}
}

func TestGormResultRepository_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db, "v1.0.0")
	ctx := context.Background()

	require.NoError(t, repo.SaveResult(ctx, sampleResponse("task-1"), "trace.pat"))

	stored, err := repo.GetResult(ctx, "task-1", model.AnalysisSymbols)
	require.NoError(t, err)
	assert.Equal(t, "task-1", stored.TaskUUID)
	assert.Equal(t, model.AnalysisSymbols, stored.Type)
	assert.Equal(t, "trace.pat", stored.TraceFile)
	assert.Equal(t, "v1.0.0", stored.Version)

	var data model.SymbolRankData
	require.NoError(t, json.Unmarshal(stored.Result, &data))
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "counter", data.Rows[0].Name)
}

func TestGormResultRepository_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db, "v1.0.0")

	stored, err := repo.GetResult(context.Background(), "missing", model.AnalysisSymbols)
	require.Error(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetErrorCode(err))
}

func TestGormResultRepository_SaveUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db, "v1.0.0")
	ctx := context.Background()

	require.NoError(t, repo.SaveResult(ctx, sampleResponse("task-1"), "trace-a.pat"))
	require.NoError(t, repo.SaveResult(ctx, sampleResponse("task-1"), "trace-b.pat"))

	stored, err := repo.GetResult(ctx, "task-1", model.AnalysisSymbols)
	require.NoError(t, err)
	assert.Equal(t, "trace-b.pat", stored.TraceFile)

	var count int64
	require.NoError(t, db.Model(&PATAnalysisResult{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormResultRepository_ListResults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db, "v1.0.0")
	ctx := context.Background()

	require.NoError(t, repo.SaveResult(ctx, sampleResponse("task-1"), "trace.pat"))

	trendline := &model.AnalysisResponse{
		TaskUUID: "task-1",
		Type:     model.AnalysisTrendline,
		Data:     &model.TrendlineData{Chunks: []int64{1, 2}, Bounds: []float64{0.5, 1.0}},
	}
	require.NoError(t, repo.SaveResult(ctx, trendline, "trace.pat"))

	results, err := repo.ListResults(ctx, "task-1")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.ListResults(ctx, "other-task")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestGormResultRepository_DeleteResults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormResultRepository(db, "v1.0.0")
	ctx := context.Background()

	require.NoError(t, repo.SaveResult(ctx, sampleResponse("task-1"), "trace.pat"))
	require.NoError(t, repo.DeleteResults(ctx, "task-1"))

	_, err := repo.GetResult(ctx, "task-1", model.AnalysisSymbols)
	assert.Error(t, err)

	// Deleting again is not an error
	assert.NoError(t, repo.DeleteResults(ctx, "task-1"))
}

func TestJSONFieldRoundTrip(t *testing.T) {
	var f JSONField
	require.NoError(t, f.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, JSONField(`{"a":1}`), f)

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), v)

	require.NoError(t, f.Scan(nil))
	assert.Nil(t, f)

	v, err = f.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, f.Scan(42))
}
