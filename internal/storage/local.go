package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/pat-analysis/pkg/errors"
)

// LocalStorage keeps trace archives on the local filesystem under a
// base directory. Keys map directly to relative paths.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if basePath == "" {
		basePath = "./traces"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError,
			"failed to create storage directory", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Upload uploads data from reader to the specified key.
func (s *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := s.fullPath(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create file", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to write file", err)
	}

	return nil
}

// UploadFile uploads a local file to the specified key.
func (s *LocalStorage) UploadFile(ctx context.Context, key string, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to open source file", err)
	}
	defer src.Close()

	return s.Upload(ctx, key, src)
}

// Download downloads data from the specified key.
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.CodeNotFound, "object not found: %s", key)
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to open file", err)
	}

	return file, nil
}

// DownloadFile downloads data from the specified key to a local file.
func (s *LocalStorage) DownloadFile(ctx context.Context, key string, localPath string) error {
	src, err := s.Download(ctx, key)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create directory", err)
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create destination file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to copy file", err)
	}

	return nil
}

// Delete deletes the object at the specified key. Deleting a missing
// object is not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.fullPath(key)); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to delete file", err)
	}

	return nil
}

// Exists checks if an object exists at the specified key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.CodeStorageError, "failed to stat file", err)
	}

	return true, nil
}

// GetURL returns the filesystem path for the key.
func (s *LocalStorage) GetURL(key string) string {
	return s.fullPath(key)
}

// BasePath returns the base directory of the store.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func (s *LocalStorage) fullPath(key string) string {
	return filepath.Join(s.basePath, key)
}
