// Package uploader pushes finished dataset runs to cloud object storage.
// Objects are keyed by run id so repeated runs never overwrite each other.
package uploader

import (
	"context"

	"bankgen/internal/config"
)

// Uploader publishes a run's output directory and returns its remote URL.
type Uploader interface {
	Enabled() bool
	UploadRun(ctx context.Context, dir string, runID string) (string, error)
}

// New selects a backend from storage configuration. With nothing enabled it
// returns a no-op uploader.
func New(cfg config.StorageConfig) (Uploader, error) {
	if cfg.GCS.Enabled {
		return NewGCS(cfg.GCS)
	}
	if cfg.S3.Enabled {
		return NewS3(cfg.S3)
	}
	return NoopUploader{}, nil
}

// NoopUploader is the disabled backend.
type NoopUploader struct{}

func (n NoopUploader) Enabled() bool {
	return false
}

func (n NoopUploader) UploadRun(ctx context.Context, dir string, runID string) (string, error) {
	return "", nil
}
