// Package storage keeps lease document files in a local directory, an S3
// bucket or a GCS bucket.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/arasfeld/rent-app/internal/infrastructure/config"
)

// Storage stores and removes objects by key
type Storage interface {
	// Upload writes the object and returns the URL clients use to fetch it
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New builds the backend selected by STORAGE_DRIVER
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath)
	case "s3":
		return NewS3Client(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSClient(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
