// Package storage provides object storage for trace archives and
// analysis artifacts. Traces recorded on the cluster are uploaded
// under a task key and fetched on demand before an analysis runs.
package storage

import (
	"context"
	"io"

	"github.com/pat-analysis/pkg/config"
	apperrors "github.com/pat-analysis/pkg/errors"
)

// Storage defines the interface for object storage operations.
type Storage interface {
	// Upload uploads data from reader to the specified key.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// UploadFile uploads a local file to the specified key.
	UploadFile(ctx context.Context, key string, localPath string) error

	// Download downloads data from the specified key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// DownloadFile downloads data from the specified key to a local file.
	DownloadFile(ctx context.Context, key string, localPath string) error

	// Delete deletes the object at the specified key.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL for the specified key (if applicable).
	GetURL(key string) string
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeCOS   StorageType = "cos"
)

// NewStorage creates a new Storage instance based on the configuration.
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch StorageType(cfg.Type) {
	case StorageTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return apperrors.New(apperrors.CodeConfigError, "storage config is nil")
	}

	storageType := StorageType(cfg.Type)
	if storageType == "" {
		storageType = StorageTypeLocal
	}

	switch storageType {
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			return apperrors.New(apperrors.CodeConfigError, "local storage path is required")
		}
	case StorageTypeCOS:
		if cfg.Bucket == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS bucket is required")
		}
		if cfg.Region == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS credentials are required")
		}
	default:
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported storage type: %s", cfg.Type)
	}

	return nil
}
