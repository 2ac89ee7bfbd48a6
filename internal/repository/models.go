// Package repository persists analysis results for the pat-analysis service.
package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/pat-analysis/pkg/model"
)

// PATAnalysisResult represents the pat_analysis_results table.
type PATAnalysisResult struct {
	ID        int64              `gorm:"column:id;primaryKey;autoIncrement"`
	TID       string             `gorm:"column:tid;type:varchar(64);uniqueIndex:idx_tid_type"`
	Type      model.AnalysisType `gorm:"column:type;uniqueIndex:idx_tid_type"`
	TraceFile string             `gorm:"column:trace_file;type:varchar(512)"`
	Result    JSONField          `gorm:"column:result;type:json"`
	Version   string             `gorm:"column:version;type:varchar(32)"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the table name for PATAnalysisResult.
func (PATAnalysisResult) TableName() string {
	return "pat_analysis_results"
}

// StoredResult is an analysis result loaded from the database. The
// payload stays raw JSON; the concrete shape depends on Type.
type StoredResult struct {
	TaskUUID  string             `json:"task_uuid"`
	Type      model.AnalysisType `json:"type"`
	TraceFile string             `json:"trace_file"`
	Result    json.RawMessage    `json:"result"`
	Version   string             `json:"version"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToStored converts the database record to a StoredResult.
func (r *PATAnalysisResult) ToStored() *StoredResult {
	return &StoredResult{
		TaskUUID:  r.TID,
		Type:      r.Type,
		TraceFile: r.TraceFile,
		Result:    json.RawMessage(r.Result),
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// JSONField is a custom type for handling JSON fields in GORM.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler interface.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
